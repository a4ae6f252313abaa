package transformer

import (
	"github.com/ternarybob/bookscraper/internal/engine/scriptanalyzer"
	"github.com/ternarybob/bookscraper/internal/models"
)

// urlField is the reserved rule-group key holding a group's URL template
// ("url" inside ruleSearch/ruleExplore); every other key is a content rule.
const urlField = "url"

// Transformer runs L3 end-to-end: preprocess + classify every rule group,
// compile the search/explore URL templates, compute the digest and
// complexity score, and produce a TransformedSource.
type Transformer struct {
	compiler *Compiler
}

func New(analyzer *scriptanalyzer.Analyzer) *Transformer {
	return &Transformer{compiler: NewCompiler(analyzer)}
}

// Transform compiles one SourceSpec. It never touches the compiled-source
// cache; callers wrap it with a cache lookup keyed by Digest (see cache.go).
func (t *Transformer) Transform(src *models.SourceSpec) *models.TransformedSource {
	out := &models.TransformedSource{
		Digest: Digest(src),
		Source: src,
	}

	score := 0

	out.Search = t.compileGroupWithURL(src.Search, &out.SearchURL, &score)
	out.Explore = t.compileGroupWithURL(src.Explore, &out.ExploreURL, &score)
	out.Book = t.compiler.CompileGroup(src.Book, &score)
	out.Toc = t.compiler.CompileGroup(src.Toc, &score)
	out.Content = t.compiler.CompileGroup(src.Content, &score)

	if out.SearchURL != nil && out.SearchURL.RequiresScript {
		score += 40
	}
	if out.ExploreURL != nil && out.ExploreURL.RequiresScript {
		score += 40
	}
	if score > 100 {
		score = 100
	}
	out.ComplexityScore = score

	return out
}

// compileGroupWithURL pulls the reserved "url" key out of a rule group,
// compiles it separately as a CompiledURL, and compiles the remaining keys
// as ordinary rules.
func (t *Transformer) compileGroupWithURL(group models.RuleGroup, urlOut **models.CompiledURL, score *int) map[string]models.CompiledRule {
	if group == nil {
		return nil
	}
	rest := make(models.RuleGroup, len(group))
	for k, v := range group {
		if k == urlField {
			*urlOut = CompileURL(v)
			continue
		}
		rest[k] = v
	}
	return t.compiler.CompileGroup(rest, score)
}
