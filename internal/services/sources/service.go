// Package sources implements SourceSpec CRUD (spec.md §13): validate,
// persist, and enumerate the book-source definitions the engine compiles
// and executes. Adapted from the teacher's internal/services/sources
// package, trimmed to the fields this domain actually has (no AuthID/
// SiteDomain matching - book sources carry no auth concept).
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/common"
	"github.com/ternarybob/bookscraper/internal/interfaces"
	"github.com/ternarybob/bookscraper/internal/models"
)

// Service manages SourceSpec persistence and lifecycle.
type Service struct {
	store  interfaces.SourceStore
	logger arbor.ILogger
}

func NewService(store interfaces.SourceStore, logger arbor.ILogger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateSource validates and persists a new source, assigning an ID and
// timestamps when absent.
func (s *Service) CreateSource(ctx context.Context, source *models.SourceSpec) error {
	if source.ID == "" {
		source.ID = uuid.New().String()
	}
	now := time.Now()
	source.CreatedAt = now
	source.UpdatedAt = now

	if err := source.Validate(); err != nil {
		return fmt.Errorf("source validation failed: %w", err)
	}
	if _, _, warnings, err := common.ValidateBaseURL(source.URL, s.logger); err != nil {
		return fmt.Errorf("source url invalid: %w", err)
	} else if len(warnings) > 0 {
		s.logger.Warn().Strs("warnings", warnings).Str("id", source.ID).Msg("source url warnings")
	}

	if err := s.store.Save(ctx, source); err != nil {
		return fmt.Errorf("save source: %w", err)
	}

	s.logger.Info().
		Str("id", source.ID).
		Str("name", source.Name).
		Str("url", source.URL).
		Msg("source created")
	return nil
}

// UpdateSource validates and persists changes to an existing source,
// preserving its original CreatedAt.
func (s *Service) UpdateSource(ctx context.Context, source *models.SourceSpec) error {
	if err := source.Validate(); err != nil {
		return fmt.Errorf("source validation failed: %w", err)
	}
	if _, _, warnings, err := common.ValidateBaseURL(source.URL, s.logger); err != nil {
		return fmt.Errorf("source url invalid: %w", err)
	} else if len(warnings) > 0 {
		s.logger.Warn().Strs("warnings", warnings).Str("id", source.ID).Msg("source url warnings")
	}

	existing, err := s.store.Get(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("source not found: %w", err)
	}
	source.CreatedAt = existing.CreatedAt
	source.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, source); err != nil {
		return fmt.Errorf("update source: %w", err)
	}

	s.logger.Info().Str("id", source.ID).Str("name", source.Name).Msg("source updated")
	return nil
}

func (s *Service) GetSource(ctx context.Context, id string) (*models.SourceSpec, error) {
	source, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return source, nil
}

func (s *Service) ListSources(ctx context.Context) ([]*models.SourceSpec, error) {
	sources, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

func (s *Service) DeleteSource(ctx context.Context, id string) error {
	source, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("source not found: %w", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}

	s.logger.Info().Str("id", id).Str("name", source.Name).Msg("source deleted")
	return nil
}
