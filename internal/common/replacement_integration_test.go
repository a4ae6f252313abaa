package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/models"
)

// TestSourceSpecReplacement_Integration tests that {key-name} replacement
// works end-to-end against the actual models.SourceSpec shape (headers,
// rule groups, and their nested maps).
func TestSourceSpecReplacement_Integration(t *testing.T) {
	logger := arbor.NewLogger()
	kvMap := map[string]string{
		"site-base-url": "https://books.example.com",
		"site-cookie":   "session=abc123",
		"search-regex":  `(\w+)\.trim\(\)`,
	}

	source := &models.SourceSpec{
		ID:   "example",
		URL:  "{site-base-url}",
		Name: "Example Source",
		Headers: map[string]string{
			"Cookie": "{site-cookie}",
		},
		Search: models.RuleGroup{
			"bookList": "{search-regex}",
		},
	}

	require.NoError(t, ReplaceInStruct(source, kvMap, logger))

	assert.Equal(t, "https://books.example.com", source.URL)
	assert.Equal(t, "session=abc123", source.Headers["Cookie"])
	assert.Equal(t, `(\w+)\.trim\(\)`, source.Search["bookList"])
}

// TestConfigReplacement_Integration tests that config replacement works
// with a struct shaped like common.Config.
func TestConfigReplacement_Integration(t *testing.T) {
	logger := arbor.NewLogger()
	kvMap := map[string]string{
		"cfbypass-endpoint": "https://bypass.example.com",
		"db-path":           "/data/bookscraper.db",
		"user-agent":        "custom-agent/2.0",
	}

	type BadgerConfig struct {
		Path string
	}
	type StorageConfig struct {
		Badger BadgerConfig
	}
	type CFBypassConfig struct {
		Endpoint string
	}
	type HTTPConfig struct {
		UserAgent string
	}
	type Config struct {
		Storage  StorageConfig
		CFBypass CFBypassConfig
		HTTP     HTTPConfig
	}

	config := &Config{
		Storage: StorageConfig{
			Badger: BadgerConfig{Path: "{db-path}"},
		},
		CFBypass: CFBypassConfig{
			Endpoint: "{cfbypass-endpoint}",
		},
		HTTP: HTTPConfig{
			UserAgent: "{user-agent}",
		},
	}

	err := ReplaceInStruct(config, kvMap, logger)
	require.NoError(t, err)

	assert.Equal(t, "/data/bookscraper.db", config.Storage.Badger.Path)
	assert.Equal(t, "https://bypass.example.com", config.CFBypass.Endpoint)
	assert.Equal(t, "custom-agent/2.0", config.HTTP.UserAgent)
}

// TestReplaceInStruct_MapStringString tests the map[string]string support
func TestReplaceInStruct_MapStringString(t *testing.T) {
	logger := arbor.NewLogger()
	kvMap := map[string]string{
		"value1": "replaced1",
		"value2": "replaced2",
	}

	type Config struct {
		Name    string
		Options map[string]string
	}

	config := &Config{
		Name: "test",
		Options: map[string]string{
			"key1": "{value1}",
			"key2": "{value2}",
			"key3": "static",
		},
	}

	err := ReplaceInStruct(config, kvMap, logger)
	require.NoError(t, err)

	assert.Equal(t, "replaced1", config.Options["key1"])
	assert.Equal(t, "replaced2", config.Options["key2"])
	assert.Equal(t, "static", config.Options["key3"])
}

// TestReplaceInStruct_SliceOfStrings tests the []string support
func TestReplaceInStruct_SliceOfStrings(t *testing.T) {
	logger := arbor.NewLogger()
	kvMap := map[string]string{
		"output1": "replaced-output-1",
		"output2": "replaced-output-2",
	}

	type LoggingConfig struct {
		Output []string
	}

	cfg := &LoggingConfig{
		Output: []string{"{output1}", "stdout", "{output2}"},
	}

	err := ReplaceInStruct(cfg, kvMap, logger)
	require.NoError(t, err)

	assert.Equal(t, []string{"replaced-output-1", "stdout", "replaced-output-2"}, cfg.Output)
}

// TestReplaceInStruct_RealSourceSpec tests replacement against
// models.SourceSpec's full rule-group surface, including a nested rule
// group map and headers.
func TestReplaceInStruct_RealSourceSpec(t *testing.T) {
	logger := arbor.NewLogger()
	kvMap := map[string]string{
		"base-url":     "https://library.example.com",
		"auth-cookie":  "token=xyz",
		"toc-selector": "#chapter-list a",
	}

	source := &models.SourceSpec{
		ID:   "library",
		URL:  "{base-url}",
		Name: "Library",
		Headers: map[string]string{
			"Cookie": "{auth-cookie}",
		},
		Toc: models.RuleGroup{
			"chapterList": "{toc-selector}",
		},
	}

	err := ReplaceInStruct(source, kvMap, logger)
	require.NoError(t, err)

	assert.Equal(t, "https://library.example.com", source.URL)
	assert.Equal(t, "token=xyz", source.Headers["Cookie"])
	assert.Equal(t, "#chapter-list a", source.Toc["chapterList"])
}
