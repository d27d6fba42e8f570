package sites

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_AllValid(t *testing.T) {
	configs := Builtin()
	require.NotEmpty(t, configs)
	for _, cfg := range configs {
		assert.NoError(t, cfg.Validate(), "built-in config %q must validate", cfg.Name)
		assert.Positive(t, cfg.MaxPages, "built-in config %q needs a pagination cap", cfg.Name)
	}
}

func TestGet(t *testing.T) {
	cfg, err := Get("exito")
	require.NoError(t, err)
	assert.Equal(t, "https://www.exito.com", cfg.BaseURL)
	assert.Equal(t, "siguiente", cfg.NextPageText)

	_, err = Get("nonexistent")
	assert.Error(t, err)
}

func TestLoadFile_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.json")
	content := `[{
		"name": "tienda",
		"baseUrl": "https://tienda.example",
		"categories": [{"name": "tv", "path": "/tv"}],
		"selectors": {"productCard": ".card", "title": ".t", "price": ".p"}
	}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	configs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, 10, configs[0].MaxPages, "missing maxPages gets the default cap")
}

func TestLoadFile_RejectsIncompleteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.json")
	content := `[{
		"name": "tienda",
		"baseUrl": "https://tienda.example",
		"categories": [{"name": "tv", "path": "/tv"}],
		"selectors": {"productCard": ".card"}
	}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selectors are required")
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestValidate_BadBaseURL(t *testing.T) {
	cfg, err := Get("exito")
	require.NoError(t, err)

	cfg.BaseURL = "www.exito.com"
	assert.Error(t, cfg.Validate())
}
