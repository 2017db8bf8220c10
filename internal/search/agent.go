package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrAgentTimeout is returned when the converse call exceeds its deadline.
// Complex tool calls (ES|QL, vector search) can legitimately take a while,
// so callers usually map this to a friendly "still working" reply instead of
// failing the request.
var ErrAgentTimeout = errors.New("agent request timed out")

// AgentClient calls the Kibana Agent Builder converse API.
type AgentClient struct {
	kibanaEndpoint string
	apiKey         string
	agentID        string
	httpc          *http.Client
}

func NewAgentClient(kibanaEndpoint, apiKey, agentID string) *AgentClient {
	return &AgentClient{
		kibanaEndpoint: strings.TrimRight(kibanaEndpoint, "/"),
		apiKey:         apiKey,
		agentID:        agentID,
		// 60s: agent tool calls routinely outlive ordinary request budgets
		httpc: &http.Client{Timeout: 60 * time.Second},
	}
}

// Converse sends input to the agent and returns the decoded reply.
func (c *AgentClient) Converse(ctx context.Context, input string) (*AgentReply, error) {
	payload, err := json.Marshal(map[string]string{
		"input":    input,
		"agent_id": c.agentID,
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.kibanaEndpoint + "/api/agent_builder/converse"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("kbn-xsrf", "true")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrAgentTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent API: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	reply := DecodeAgentReply(body)
	return &reply, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ReplyKind tags which of the known response shapes the agent used.
type ReplyKind int

const (
	ReplyUnrecognized ReplyKind = iota
	ReplyText                   // {"text": "..."}
	ReplyResponseString         // {"response": "..."}
	ReplyResponseObject         // {"response": {"message"|"content": "..."}}
	ReplyMessageString          // {"message": "..."}
	ReplyMessageObject          // {"message": {"content": "..."}}
)

// AgentReply is the decoded converse response. Content is empty exactly when
// Kind is ReplyUnrecognized.
type AgentReply struct {
	Kind    ReplyKind
	Content string
}

// DecodeAgentReply decodes the loosely-specified converse response body.
//
// The platform has shipped several envelope shapes over time; each known one
// is tried in order and anything else lands on the explicit Unrecognized
// fallback rather than an error.
func DecodeAgentReply(body []byte) AgentReply {
	var envelope struct {
		Text     string          `json:"text"`
		Response json.RawMessage `json:"response"`
		Message  json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return AgentReply{Kind: ReplyUnrecognized}
	}

	if envelope.Text != "" {
		return AgentReply{Kind: ReplyText, Content: envelope.Text}
	}

	if kind, content, ok := decodeNested(envelope.Response, ReplyResponseString, ReplyResponseObject); ok {
		return AgentReply{Kind: kind, Content: content}
	}
	if kind, content, ok := decodeNested(envelope.Message, ReplyMessageString, ReplyMessageObject); ok {
		return AgentReply{Kind: kind, Content: content}
	}

	return AgentReply{Kind: ReplyUnrecognized}
}

// decodeNested handles a field that may be a plain string or an object
// carrying the text under "message" or "content".
func decodeNested(raw json.RawMessage, stringKind, objectKind ReplyKind) (ReplyKind, string, bool) {
	if len(raw) == 0 {
		return ReplyUnrecognized, "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return ReplyUnrecognized, "", false
		}
		return stringKind, s, true
	}

	var obj struct {
		Message string `json:"message"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ReplyUnrecognized, "", false
	}
	if obj.Message != "" {
		return objectKind, obj.Message, true
	}
	if obj.Content != "" {
		return objectKind, obj.Content, true
	}
	return ReplyUnrecognized, "", false
}
