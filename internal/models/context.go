package models

// ExecutionContext is threaded through every engine layer; it is immutable
// per call and never stored (spec.md §3 "Execution context").
type ExecutionContext struct {
	BaseURL string
	Vars    map[string]string

	// Scope carries the ambient structured values (book/chapter/source) as
	// already-decoded JSON, available to the script executor and to
	// PropertyAccess operations over OperandContext.
	Book    *Book
	Chapter *Chapter
	Source  *SourceSpec

	Key  string
	Page int
}

// WithVar returns a shallow copy of the context with one variable set,
// preserving immutability of the original (callers never mutate in place).
func (c ExecutionContext) WithVar(name, value string) ExecutionContext {
	next := c
	vars := make(map[string]string, len(c.Vars)+1)
	for k, v := range c.Vars {
		vars[k] = v
	}
	vars[name] = value
	next.Vars = vars
	return next
}

// Var looks up a scope variable, returning "" when absent.
func (c ExecutionContext) Var(name string) string {
	if c.Vars == nil {
		return ""
	}
	return c.Vars[name]
}
