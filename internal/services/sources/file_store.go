package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/bookscraper/internal/interfaces"
	"github.com/ternarybob/bookscraper/internal/models"
)

// FileStore implements interfaces.SourceStore over a directory of one file
// per source, named "<id>.json" or "<id>.toml" (spec.md §13, SPEC_FULL.md
// §11 "TOML source-file loading (.toml sources alongside JSON)"). JSON is
// the save format; both extensions are recognised on load so hand-authored
// TOML source files work without conversion.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) Get(ctx context.Context, id string) (*models.SourceSpec, error) {
	path, err := f.resolve(id)
	if err != nil {
		return nil, err
	}
	return loadSourceFile(path)
}

func (f *FileStore) Save(ctx context.Context, source *models.SourceSpec) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create source directory: %w", err)
	}
	data, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		return fmt.Errorf("encode source %q: %w", source.ID, err)
	}
	path := filepath.Join(f.dir, source.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write source %q: %w", source.ID, err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	path, err := f.resolve(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete source %q: %w", id, err)
	}
	return nil
}

func (f *FileStore) List(ctx context.Context) ([]*models.SourceSpec, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var out []*models.SourceSpec
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".toml" {
			continue
		}
		source, err := loadSourceFile(filepath.Join(f.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, source)
	}
	return out, nil
}

// resolve finds the on-disk file backing id, preferring .json over .toml.
func (f *FileStore) resolve(id string) (string, error) {
	for _, ext := range []string{".json", ".toml"} {
		path := filepath.Join(f.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", interfaces.ErrSourceNotFound
}

// loadSourceFile decodes a source file as JSON or TOML by extension.
func loadSourceFile(path string) (*models.SourceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrSourceNotFound
		}
		return nil, fmt.Errorf("read source file %q: %w", path, err)
	}

	var source models.SourceSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &source); err != nil {
			return nil, fmt.Errorf("parse TOML source %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &source); err != nil {
			return nil, fmt.Errorf("parse JSON source %q: %w", path, err)
		}
	}
	return &source, nil
}
