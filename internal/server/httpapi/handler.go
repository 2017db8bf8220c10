// Package httpapi provides the HTTP handlers for the REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/fincontext/internal/common"
	"github.com/dmitrijs2005/fincontext/internal/logging"
	"github.com/dmitrijs2005/fincontext/internal/server/models"
)

// UserAccounts is the slice of the user service used by the handlers.
type UserAccounts interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Chatter answers a user's free-text question.
type Chatter interface {
	Ask(ctx context.Context, username, message string) string
}

// StatsProvider computes the dashboard aggregates for a user.
type StatsProvider interface {
	ForUser(ctx context.Context, username string) (*models.Stats, error)
}

type Handler struct {
	users  UserAccounts
	chat   Chatter
	stats  StatsProvider
	logger logging.Logger
}

func NewHandler(users UserAccounts, chat Chatter, stats StatsProvider, logger logging.Logger) *Handler {
	return &Handler{
		users:  users,
		chat:   chat,
		stats:  stats,
		logger: logger.With("module", "httpapi"),
	}
}

// Root is an unauthenticated liveness endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"message": "FinContext AI Backend is running",
	})
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(ctx, w, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.badRequest(ctx, w, "username, email and password are required")
		return
	}

	user, err := h.users.Signup(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, http.StatusCreated, signupResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(ctx, w, "invalid request body")
		return
	}

	token, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

type meResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := CurrentUser(ctx)
	if !ok {
		h.writeError(ctx, w, common.ErrorUnauthorized)
		return
	}

	h.writeJSON(ctx, w, http.StatusOK, meResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Sender   string `json:"sender"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := CurrentUser(ctx)
	if !ok {
		h.writeError(ctx, w, common.ErrorUnauthorized)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(ctx, w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.badRequest(ctx, w, "message is required")
		return
	}

	answer := h.chat.Ask(ctx, user.Username, req.Message)

	h.writeJSON(ctx, w, http.StatusOK, chatResponse{
		Response: answer,
		Sender:   "bot",
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := CurrentUser(ctx)
	if !ok {
		h.writeError(ctx, w, common.ErrorUnauthorized)
		return
	}

	stats, err := h.stats.ForUser(ctx, user.Username)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, http.StatusOK, stats)
}

func (h *Handler) badRequest(ctx context.Context, w http.ResponseWriter, msg string) {
	h.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msg})
}
