package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_endpoint_addr": "http://www.example:9000",
		"request_timeout":      "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	})

	t.Run("partial json keeps existing values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"server_endpoint_addr": "http://other:8000",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{RequestTimeout: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://other:8000", cfg.ServerEndpointAddr)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("no CONFIG and no flags, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			ServerEndpointAddr: "http://defaults:1234",
			RequestTimeout:     42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.ServerEndpointAddr)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
