package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/fincontext/internal/common"
	"github.com/dmitrijs2005/fincontext/internal/server/models"
)

type currentUserKey struct{}

// withCurrentUser stores the authenticated user in the context.
func withCurrentUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, currentUserKey{}, u)
}

// CurrentUser extracts the authenticated user from the context.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(currentUserKey{}).(*models.User)
	return u, ok
}

// requireAuth verifies the Authorization header on every request in its
// subtree. All failures, missing header, bad scheme, invalid or expired
// token, unknown subject, come back as the same 401 body.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(auth, common.BearerPrefix) {
			h.writeError(r.Context(), w, common.ErrorUnauthorized)
			return
		}

		token := strings.TrimPrefix(auth, common.BearerPrefix)
		user, err := h.users.Authenticate(r.Context(), token)
		if err != nil {
			h.writeError(r.Context(), w, common.ErrorUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withCurrentUser(r.Context(), user)))
	})
}
