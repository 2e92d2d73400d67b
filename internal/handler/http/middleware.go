package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/swaritsharma001/welness-studio/internal/auth"
	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/internal/repository"
	"github.com/swaritsharma001/welness-studio/pkg/httputil"
	"github.com/swaritsharma001/welness-studio/pkg/middleware"
)

type contextKey string

const userContextKey contextKey = "current_user"

// TokenCookieName is the cookie carrying the credential for browser clients.
const TokenCookieName = "token"

// Guard authenticates requests and enforces role requirements. The token is
// accepted from either the Authorization header or the token cookie, and the
// user is re-fetched on every request so role changes and deletions take
// effect immediately.
type Guard struct {
	jwtManager *auth.JWTManager
	users      repository.UserRepository
}

// NewGuard creates a new authorization guard.
func NewGuard(jwtManager *auth.JWTManager, users repository.UserRepository) *Guard {
	return &Guard{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Authenticate verifies the credential and stores the current user in the
// request context. All failures produce the same generic 401 so callers
// cannot distinguish a bad token from a deleted account.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeUnauthorized(w)
			return
		}

		userID, err := g.jwtManager.Parse(token)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		user, err := g.users.GetByID(r.Context(), userID)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = middleware.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireElevated allows only admin and owner roles through. Must be mounted
// after Authenticate.
func (g *Guard) RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeUnauthorized(w)
			return
		}
		if !domain.IsElevated(user.Role) {
			httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "FORBIDDEN", Message: "insufficient permissions"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user stored by Authenticate, or
// nil when the request is unauthenticated.
func UserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(userContextKey).(*domain.User); ok {
		return user
	}
	return nil
}

// extractToken pulls the credential from the Authorization header, falling
// back to the token cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

func writeUnauthorized(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
	})
}

// ContentTypeJSON rejects bodied requests that declare a non-JSON content
// type. Requests without a Content-Type header pass through.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
