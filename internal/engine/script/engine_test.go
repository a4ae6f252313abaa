package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

func TestRun_JavaBridgeForwardsToProvider(t *testing.T) {
	inst, err := NewInstance(nativeapi.New(nil), nil)
	require.NoError(t, err)

	out, err := inst.Run(`java.md5("abc")`, models.ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", out)
}

func TestRun_ScopeVariablesAvailable(t *testing.T) {
	inst, err := NewInstance(nativeapi.New(nil), nil)
	require.NoError(t, err)

	out, err := inst.Run(`content + "-" + key`, models.ExecutionContext{Key: "dragon", Vars: map[string]string{"content": "chapter one"}})
	require.NoError(t, err)
	assert.Equal(t, "chapter one-dragon", out)
}

func TestRunPreload_RewritesLegacyDestructure(t *testing.T) {
	inst, err := NewInstance(nativeapi.New(nil), nil)
	require.NoError(t, err)

	err = inst.RunPreload("const {java} = this;\nfunction helper(x) { return java.trim(x); }")
	require.NoError(t, err)

	out, err := inst.Run(`helper("  padded  ")`, models.ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, "padded", out)
}

func TestRun_ControlFlowSetsResult(t *testing.T) {
	inst, err := NewInstance(nativeapi.New(nil), nil)
	require.NoError(t, err)

	out, err := inst.Run(`if (content.length > 3) { result = "long"; } else { result = "short"; }`,
		models.ExecutionContext{Vars: map[string]string{"content": "a much longer string"}})
	require.NoError(t, err)
	assert.Equal(t, "long", out)
}
