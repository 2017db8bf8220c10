package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fincontext/internal/common"
	"github.com/dmitrijs2005/fincontext/internal/logging"
	"github.com/dmitrijs2005/fincontext/internal/server/models"
)

type fakeUsers struct {
	signupUser *models.User
	signupErr  error
	loginToken string
	loginErr   error
	authUser   *models.User
	authErr    error
	authToken  string
}

func (f *fakeUsers) Signup(_ context.Context, username, email, password string) (*models.User, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return f.signupUser, nil
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	f.authToken = token
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authUser, nil
}

type fakeChat struct {
	answer  string
	message string
	user    string
}

func (f *fakeChat) Ask(_ context.Context, username, message string) string {
	f.user = username
	f.message = message
	return f.answer
}

type fakeStats struct {
	stats *models.Stats
	err   error
	user  string
}

func (f *fakeStats) ForUser(_ context.Context, username string) (*models.Stats, error) {
	f.user = username
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRouter(users *fakeUsers, chat *fakeChat, stats *fakeStats) http.Handler {
	if users == nil {
		users = &fakeUsers{}
	}
	if chat == nil {
		chat = &fakeChat{}
	}
	if stats == nil {
		stats = &fakeStats{}
	}
	return NewRouter(NewHandler(users, chat, stats, testLogger()))
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m
}

func TestRoot(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	rr := doJSON(t, router, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["message"], "running")
}

func TestSignup(t *testing.T) {
	users := &fakeUsers{signupUser: &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}}
	router := newTestRouter(users, nil, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/signup", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "s3cret",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
}

func TestSignup_Duplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"username taken", common.ErrDuplicateUsername},
		{"email registered", common.ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeUsers{signupErr: tt.err}, nil, nil)

			rr := doJSON(t, router, http.MethodPost, "/api/signup", "", map[string]string{
				"username": "alice", "email": "a@b.c", "password": "x",
			})

			assert.Equal(t, http.StatusConflict, rr.Code)
			assert.Equal(t, tt.err.Error(), decodeBody(t, rr)["error"])
		})
	}
}

func TestSignup_BadRequest(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{nope"},
		{"missing fields", `{"username":"alice"}`},
		{"blank username", `{"username":"  ","email":"a@b.c","password":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestSignup_InternalError(t *testing.T) {
	router := newTestRouter(&fakeUsers{signupErr: common.ErrorInternal}, nil, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/signup", "", map[string]string{
		"username": "alice", "email": "a@b.c", "password": "x",
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, common.ErrorInternal.Error(), decodeBody(t, rr)["error"])
}

func TestLogin(t *testing.T) {
	router := newTestRouter(&fakeUsers{loginToken: "tok123"}, nil, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "s3cret",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "tok123", body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newTestRouter(&fakeUsers{loginErr: common.ErrorInvalidCredentials}, nil, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, common.ErrorInvalidCredentials.Error(), decodeBody(t, rr)["error"])
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	router := newTestRouter(&fakeUsers{authErr: common.ErrorUnauthorized}, nil, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/chat"},
		{http.MethodGet, "/api/stats"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// no header at all
			rr := doJSON(t, router, tt.method, tt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, common.ErrorUnauthorized.Error(), decodeBody(t, rr)["error"])

			// wrong scheme
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(common.AuthorizationHeaderName, "Basic abc")
			rr = httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)

			// rejected token
			rr = doJSON(t, router, tt.method, tt.path, "bad-token", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestMe(t *testing.T) {
	users := &fakeUsers{authUser: &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}}
	router := newTestRouter(users, nil, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/me", "tok123", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "tok123", users.authToken)
	body := decodeBody(t, rr)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password_hash")
}

func TestChat(t *testing.T) {
	users := &fakeUsers{authUser: &models.User{ID: "u1", Username: "alice"}}
	chat := &fakeChat{answer: "you spent 1200 on food"}
	router := newTestRouter(users, chat, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/chat", "tok123", map[string]string{
		"message": "how much did I spend?",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "you spent 1200 on food", body["response"])
	assert.Equal(t, "bot", body["sender"])
	assert.Equal(t, "alice", chat.user)
	assert.Equal(t, "how much did I spend?", chat.message)
}

func TestChat_EmptyMessage(t *testing.T) {
	users := &fakeUsers{authUser: &models.User{ID: "u1", Username: "alice"}}
	router := newTestRouter(users, nil, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/chat", "tok123", map[string]string{"message": "   "})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStats(t *testing.T) {
	users := &fakeUsers{authUser: &models.User{ID: "u1", Username: "alice"}}
	stats := &fakeStats{stats: &models.Stats{TotalSpend: 1200.5, TotalIncome: 50000, TopCategory: "Food"}}
	router := newTestRouter(users, nil, stats)

	rr := doJSON(t, router, http.MethodGet, "/api/stats", "tok123", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice", stats.user)
	body := decodeBody(t, rr)
	assert.Equal(t, 1200.5, body["total_spend"])
	assert.Equal(t, 50000.0, body["total_income"])
	assert.Equal(t, "Food", body["top_category"])
}

func TestStats_Error(t *testing.T) {
	users := &fakeUsers{authUser: &models.User{ID: "u1", Username: "alice"}}
	stats := &fakeStats{err: errors.New("search down")}
	router := newTestRouter(users, nil, stats)

	rr := doJSON(t, router, http.MethodGet, "/api/stats", "tok123", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, common.ErrorInternal.Error(), decodeBody(t, rr)["error"])
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrDuplicateUsername, http.StatusConflict},
		{common.ErrDuplicateEmail, http.StatusConflict},
		{common.ErrorInvalidCredentials, http.StatusUnauthorized},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrorNotFound, http.StatusNotFound},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFromError(tt.err); got != tt.want {
			t.Errorf("statusFromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
