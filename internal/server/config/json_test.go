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
		"endpoint_addr_http":             "www.example:9000",
		"database_dsn":                   "postgres://example/fincontext",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "30m",
		"elastic_endpoint":               "https://demo.es.example.cloud",
		"elastic_api_key":                "apikey123",
		"kibana_endpoint":                "https://demo.kb.example.cloud",
		"agent_id":                       "fincontext-agent",
		"transactions_index":             "tx-index",
		"documents_index":                "doc-index",
		"s3_root_user":                   "user",
		"s3_root_password":               "password",
		"s3_bucket":                      "bucket",
		"s3_region":                      "region",
		"s3_base_endpoint":               "base_endpoint",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://example/fincontext", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, "https://demo.es.example.cloud", cfg.ElasticEndpoint)
		assert.Equal(t, "apikey123", cfg.ElasticAPIKey)
		assert.Equal(t, "https://demo.kb.example.cloud", cfg.KibanaEndpoint)
		assert.Equal(t, "fincontext-agent", cfg.AgentID)
		assert.Equal(t, "tx-index", cfg.TransactionsIndex)
		assert.Equal(t, "doc-index", cfg.DocumentsIndex)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
	})

	t.Run("partial json keeps existing values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"secret_key": "overlay_key",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "overlay_key", cfg.SecretKey)
		assert.Equal(t, ":8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, "fincontext-transactions", cfg.TransactionsIndex)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:            "defaults:1234",
			DatabaseDSN:                 "dsn",
			SecretKey:                   "key",
			AccessTokenValidityDuration: 2 * time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "dsn", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
