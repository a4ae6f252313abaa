// Package sourceengine implements L7 (spec.md §4.8): the public façade
// operations search, bookInfo, tableOfContents, chapterContent, and check.
package sourceengine

import (
	"context"
	"fmt"

	"github.com/ternarybob/bookscraper/internal/interfaces"
	"github.com/ternarybob/bookscraper/internal/models"
)

// ErrTransport wraps a transport-layer failure (spec.md §7 E-TransportFail),
// the only error category that bubbles out of the source engine besides an
// empty bookList.
type ErrTransport struct {
	URL   string
	Cause error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("transport failure fetching %s: %v", e.URL, e.Cause)
}

func (e *ErrTransport) Unwrap() error { return e.Cause }

func (e *Engine) fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	if e.HTTP == nil {
		return "", &ErrTransport{URL: url, Cause: fmt.Errorf("no http collaborator configured")}
	}
	resp, err := e.HTTP.Do(ctx, interfaces.HTTPRequest{Method: "GET", URL: url, Headers: headers})
	if err != nil {
		return "", &ErrTransport{URL: url, Cause: err}
	}
	if resp.Code >= 400 {
		return "", &ErrTransport{URL: url, Cause: fmt.Errorf("http status %d", resp.Code)}
	}
	return resp.Body, nil
}

func baseContext(src *models.SourceSpec) models.ExecutionContext {
	return models.ExecutionContext{
		BaseURL: src.URL,
		Source:  src,
		Vars:    map[string]string{},
	}
}
