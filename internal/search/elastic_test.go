package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkIndex_SendsNDJSON(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"errors":false,"items":[]}`))
	}))
	defer srv.Close()

	c := NewElasticClient(srv.URL, "test-key")
	err := c.BulkIndex(context.Background(), "fincontext-transactions", []any{
		map[string]string{"Description": "Zomato"},
		map[string]string{"Description": "Uber"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/fincontext-transactions/_bulk", gotPath)
	assert.Equal(t, "ApiKey test-key", gotAuth)
	assert.Equal(t, "application/x-ndjson", gotContentType)

	lines := strings.Split(strings.TrimRight(string(gotBody), "\n"), "\n")
	require.Len(t, lines, 4, "two docs means four NDJSON lines")
	assert.Equal(t, `{"index":{}}`, lines[0])
	assert.Contains(t, lines[1], "Zomato")
	assert.Equal(t, `{"index":{}}`, lines[2])
	assert.Contains(t, lines[3], "Uber")
}

func TestBulkIndex_EmptyDocsIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewElasticClient(srv.URL, "")
	require.NoError(t, c.BulkIndex(context.Background(), "idx", nil))
	assert.False(t, called)
}

func TestBulkIndex_ItemErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":true,"items":[{"index":{"status":400}}]}`))
	}))
	defer srv.Close()

	c := NewElasticClient(srv.URL, "")
	err := c.BulkIndex(context.Background(), "idx", []any{map[string]string{"a": "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item errors")
}

func TestIndexDocument(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotDoc))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	}))
	defer srv.Close()

	c := NewElasticClient(srv.URL, "")
	err := c.IndexDocument(context.Background(), "fincontext-documents", map[string]string{"text": "policy"})
	require.NoError(t, err)

	assert.Equal(t, "/fincontext-documents/_doc", gotPath)
	assert.Equal(t, "policy", gotDoc["text"])
}

func TestQuery_DecodesColumnsAndValues(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotQuery))
		w.Write([]byte(`{
			"columns":[{"name":"total","type":"double"}],
			"values":[[1234.5]]
		}`))
	}))
	defer srv.Close()

	c := NewElasticClient(srv.URL, "")
	res, err := c.Query(context.Background(), "FROM tx | STATS total = SUM(Amount)")
	require.NoError(t, err)

	assert.Equal(t, "FROM tx | STATS total = SUM(Amount)", gotQuery["query"])
	require.Len(t, res.Columns, 1)
	assert.Equal(t, "total", res.Columns[0].Name)
	require.Len(t, res.Values, 1)
	assert.Equal(t, 1234.5, res.Values[0][0])
}

func TestQuery_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"parsing_exception"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewElasticClient(srv.URL, "")
	_, err := c.Query(context.Background(), "NOT ESQL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
