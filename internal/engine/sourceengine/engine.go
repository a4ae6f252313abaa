package sourceengine

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/engine/ruleanalyzer"
	"github.com/ternarybob/bookscraper/internal/engine/script"
	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// Engine is L7: it wires the HTTP collaborator and the rule analyser (L6)
// into the five source operations the rest of the system calls.
type Engine struct {
	Analyzer        *ruleanalyzer.Analyzer
	Provider        *nativeapi.Provider
	HTTP            interfaces.HTTPCollaborator
	CFBypass        interfaces.CloudflareBypass
	NewScript       func() (*script.Instance, error)
	Logger          arbor.ILogger
	MaxTocPages     int
	MaxContentPages int
}

func New(analyzer *ruleanalyzer.Analyzer, provider *nativeapi.Provider, http interfaces.HTTPCollaborator, logger arbor.ILogger) *Engine {
	return &Engine{
		Analyzer:        analyzer,
		Provider:        provider,
		HTTP:            http,
		Logger:          logger,
		MaxTocPages:     50,
		MaxContentPages: 20,
	}
}

func (e *Engine) warn(msg, detail string) {
	if e.Logger != nil {
		e.Logger.Warn().Str("detail", detail).Msg(msg)
	}
}
