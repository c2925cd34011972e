package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProviderSet(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadProviderSet(t *testing.T) {
	path := writeProviderSet(t, `
providers:
  - name: fast
    kind: openai
    model: gpt-4o-mini
  - name: deep
    kind: claude
    model: claude-sonnet-4-5
    api_key_env: ANTHROPIC_API_KEY
    temperature: 0.3
`)

	set, err := LoadProviderSet(path)
	require.NoError(t, err)
	require.Len(t, set.Providers, 2)

	deep, ok := set.Lookup("deep")
	require.True(t, ok)
	assert.Equal(t, "claude", deep.Kind)
	require.NotNil(t, deep.Temperature)
	assert.Equal(t, 0.3, *deep.Temperature)

	_, ok = set.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadProviderSetRejectsUnnamedEntry(t *testing.T) {
	path := writeProviderSet(t, `
providers:
  - kind: openai
`)
	_, err := LoadProviderSet(path)
	assert.Error(t, err)
}

func TestLoadProviderSetRejectsKindlessEntry(t *testing.T) {
	path := writeProviderSet(t, `
providers:
  - name: fast
`)
	_, err := LoadProviderSet(path)
	assert.Error(t, err)
}
