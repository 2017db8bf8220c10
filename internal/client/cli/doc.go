// Package cli implements the interactive FinContext command-line client.
//
// The CLI is a small REPL over the backend REST API: the user registers or
// logs in, then asks free-text questions about their finances or pulls the
// spending dashboard. The bearer token obtained at login is held in memory
// by the API client for the lifetime of the session.
package cli
