package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/fincontext/internal/flagx"
	"github.com/dmitrijs2005/fincontext/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ElasticEndpoint             string         `json:"elastic_endpoint"`
	ElasticAPIKey               string         `json:"elastic_api_key"`
	KibanaEndpoint              string         `json:"kibana_endpoint"`
	AgentID                     string         `json:"agent_id"`
	TransactionsIndex           string         `json:"transactions_index"`
	DocumentsIndex              string         `json:"documents_index"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON file is loaded. Only fields present (non-zero) in the file
// overwrite the current values, so a partial file keeps the defaults for
// everything it omits. An unreadable or invalid file panics: a config file
// that was explicitly pointed at must not be silently skipped.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setIfNotEmpty := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setIfNotEmpty(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	setIfNotEmpty(&config.ElasticEndpoint, c.ElasticEndpoint)
	setIfNotEmpty(&config.ElasticAPIKey, c.ElasticAPIKey)
	setIfNotEmpty(&config.KibanaEndpoint, c.KibanaEndpoint)
	setIfNotEmpty(&config.AgentID, c.AgentID)
	setIfNotEmpty(&config.TransactionsIndex, c.TransactionsIndex)
	setIfNotEmpty(&config.DocumentsIndex, c.DocumentsIndex)
	setIfNotEmpty(&config.S3RootUser, c.S3RootUser)
	setIfNotEmpty(&config.S3RootPassword, c.S3RootPassword)
	setIfNotEmpty(&config.S3Bucket, c.S3Bucket)
	setIfNotEmpty(&config.S3Region, c.S3Region)
	setIfNotEmpty(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
}
