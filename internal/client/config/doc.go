// Package config loads runtime configuration for the FinContext CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "90s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8000",
//	  "request_timeout": "90s"
//	}
package config
