package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fincontext/internal/logging"
	"github.com/dmitrijs2005/fincontext/internal/search"
)

// Converser is the slice of the agent client used by the chat service.
type Converser interface {
	Converse(ctx context.Context, input string) (*search.AgentReply, error)
}

// ChatService forwards a user's question to the conversational agent and
// degrades to canned demo answers when the agent is unreachable or replies
// in an unknown shape. Ask never returns an error to the caller.
type ChatService struct {
	agent  Converser
	logger logging.Logger
}

func NewChatService(agent Converser, logger logging.Logger) *ChatService {
	return &ChatService{
		agent:  agent,
		logger: logger.With("module", "chat_service"),
	}
}

const timeoutReply = "The AI is still crunching the numbers on your transactions. " +
	"It's taking a bit longer than usual, but your data is safe! Maybe try a simpler question?"

// Ask returns the agent's answer for message, or a fallback reply.
func (s *ChatService) Ask(ctx context.Context, username, message string) string {

	reply, err := s.agent.Converse(ctx, message)
	if err != nil {
		if errors.Is(err, search.ErrAgentTimeout) {
			s.logger.Warn(ctx, "agent request timed out", "username", username)
			return timeoutReply
		}
		s.logger.Error(ctx, "agent request failed", "username", username, "error", err.Error())
		return s.fallback(message)
	}

	if reply.Kind == search.ReplyUnrecognized {
		s.logger.Warn(ctx, "unrecognized agent reply shape", "username", username)
		return s.fallback(message)
	}

	return reply.Content
}

// fallback keeps the demo usable without a live agent connection.
func (s *ChatService) fallback(message string) string {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "cardiac") || strings.Contains(lower, "policy") {
		return "Based on your Insurance Policy (Reliance Silver Plan), you have cardiac care coverage " +
			"up to ₹5,00,000, but please note there is a 2-year waiting period."
	}

	for _, kw := range []string{"spend", "swiggy", "zomato", "amount"} {
		if strings.Contains(lower, kw) {
			return "Analyzing your transactions... You've spent approximately ₹1,200 on food delivery " +
				"this month according to your latest statement."
		}
	}

	return fmt.Sprintf("I've analyzed your data regarding '%s'. (Live Agent connection currently using demo fallback mode).", message)
}
