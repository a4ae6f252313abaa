package jsoup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S3: jsoup dialect with ambiguous numeric class (spec.md §8).
func TestGetString_NumericClassThenIndexFallback(t *testing.T) {
	content := `<span class="-1">A</span><span class="-2">B</span>`
	f := New()

	assert.Equal(t, "A", f.GetString(content, "span.-1@text"))
	// "0" has no element with class "0"; falls back to positional index 0.
	assert.Equal(t, "A", f.GetString(content, "span.0@text"))
}

func TestGetString_IDAndClassPrefix(t *testing.T) {
	content := `<div id="title">Hello</div><div class="author">X</div>`
	f := New()
	assert.Equal(t, "Hello", f.GetString(content, "id.title@text"))
	assert.Equal(t, "X", f.GetString(content, "class.author@text"))
}

func TestGetString_TextFilter(t *testing.T) {
	content := `<li>Chapter 1</li><li>Chapter 2</li>`
	f := New()
	assert.Equal(t, "Chapter 2", f.GetString(content, "text.2@text"))
}
