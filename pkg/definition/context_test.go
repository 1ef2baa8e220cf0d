package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_PreservesInsertionOrder(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.Set("project_name", String("demo")))
	require.NoError(t, ctx.Set("use_docker", Bool(true)))
	require.NoError(t, ctx.Set("port", Integer(8080)))

	assert.Equal(t, []string{"project_name", "use_docker", "port"}, ctx.Keys())
	assert.Equal(t, 3, ctx.Len())

	assert.Equal(t, map[string]interface{}{
		"project_name": "demo",
		"use_docker":   true,
		"port":         int64(8080),
	}, ctx.Data())
}

func TestContext_RejectsTypeChange(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.Set("name", String("a")))

	err := ctx.Set("name", Bool(true))
	require.Error(t, err)

	// same-tag overwrite keeps the original position
	require.NoError(t, ctx.Set("other", Integer(1)))
	require.NoError(t, ctx.Set("name", String("b")))
	assert.Equal(t, []string{"name", "other"}, ctx.Keys())
	v, _ := ctx.Get("name")
	assert.Equal(t, "b", v.Str())
}

func TestContext_RejectsUnsupported(t *testing.T) {
	ctx := NewContext()
	require.Error(t, ctx.Set("ratio", ValueOf(0.5)))
	assert.Equal(t, 0, ctx.Len())
}

func TestContext_Freeze(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.Set("a", Bool(true)))
	ctx.Freeze()

	assert.True(t, ctx.Frozen())
	assert.Error(t, ctx.Set("b", Bool(true)))
	_, ok := ctx.Get("b")
	assert.False(t, ok)
}

func TestContext_Matches(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.Set("use_docker", Bool(false)))

	assert.True(t, ctx.Matches("use_docker", Bool(false)))
	assert.False(t, ctx.Matches("use_docker", Bool(true)))
	assert.False(t, ctx.Matches("use_docker", String("false")))
	assert.False(t, ctx.Matches("missing", Bool(false)))
}

func TestContext_KeysIsACopy(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.Set("a", Bool(true)))
	keys := ctx.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, ctx.Keys())
}
