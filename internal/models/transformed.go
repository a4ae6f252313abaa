package models

// AnalysisVerdictKind tags the outcome of the static script analyser (L2).
type AnalysisVerdictKind int

const (
	VerdictNative AnalysisVerdictKind = iota
	VerdictNativeChain
	VerdictRequiresScript
)

// AnalysisVerdict is the cached classification of one script fragment.
type AnalysisVerdict struct {
	Kind  AnalysisVerdictKind
	Plan  *NativeExecutionPlan   // VerdictNative
	Chain []*NativeExecutionPlan // VerdictNativeChain
	Text  string                 // VerdictRequiresScript: original source
}

// CompiledURL is the transformed form of one URL template: the parsed
// template for the URL portion plus its options, and whether any part of it
// could not be statically resolved.
type CompiledURL struct {
	Template       ParsedTemplate
	Options        UrlOptions
	RequiresScript bool
}

// TransformedSource is L3's output for one SourceSpec: every rule group
// compiled, every URL template compiled, plus an informational complexity
// score. It is content-addressed by the digest of the source's canonical
// JSON form (see transformer.Digest) and persisted to the compiled-source
// cache.
type TransformedSource struct {
	Digest  string
	Source  *SourceSpec

	SearchURL  *CompiledURL
	ExploreURL *CompiledURL

	Search  map[string]CompiledRule
	Explore map[string]CompiledRule
	Book    map[string]CompiledRule
	Toc     map[string]CompiledRule
	Content map[string]CompiledRule

	ComplexityScore int
}
