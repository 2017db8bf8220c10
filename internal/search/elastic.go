// Package search contains the HTTP clients for the external search platform:
// an Elasticsearch REST client (bulk indexing and ES|QL queries) and a Kibana
// Agent Builder client for conversational requests.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ElasticClient talks to the Elasticsearch REST API using ApiKey auth.
type ElasticClient struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

func NewElasticClient(endpoint, apiKey string) *ElasticClient {
	return &ElasticClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ElasticClient) newRequest(ctx context.Context, method, path, contentType string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}
	return req, nil
}

func (c *ElasticClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("elasticsearch: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return b, nil
}

// BulkIndex indexes docs into index with a single _bulk request. Each doc is
// preceded by a bare {"index":{}} action line (NDJSON framing). A response
// with "errors": true fails the whole call.
func (c *ElasticClient) BulkIndex(ctx context.Context, index string, docs []any) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		buf.WriteString(`{"index":{}}` + "\n")
		line, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/"+index+"/_bulk", "application/x-ndjson", buf.Bytes())
	if err != nil {
		return err
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if result.Errors {
		return fmt.Errorf("bulk indexing into %s reported item errors", index)
	}
	return nil
}

// IndexDocument indexes a single document into index.
func (c *ElasticClient) IndexDocument(ctx context.Context, index string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/"+index+"/_doc", "application/json", body)
	if err != nil {
		return err
	}

	_, err = c.do(req)
	return err
}

// QueryColumn describes one column of an ES|QL result set.
type QueryColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// QueryResult is the columns+values shape returned by the _query endpoint.
type QueryResult struct {
	Columns []QueryColumn `json:"columns"`
	Values  [][]any       `json:"values"`
}

// Query runs an ES|QL query via POST /_query.
func (c *ElasticClient) Query(ctx context.Context, esql string) (*QueryResult, error) {
	body, err := json.Marshal(map[string]string{"query": esql})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/_query", "application/json", body)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return result, nil
}
