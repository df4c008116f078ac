package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/streamtube/streamtube-server/internal/api/http/handler"
	"github.com/streamtube/streamtube-server/internal/model"
)

// Authenticate validates the access token from the accessToken cookie or
// the Authorization bearer header and stores the user ID in the request
// context. Requests without a valid token get a 401 envelope.
func Authenticate(tokens model.TokenManager, ctxManager model.ContextManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessTokenFromRequest(r)
			if token == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := tokens.ParseAccessToken(token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := ctxManager.SetUserIDToContext(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie("accessToken"); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(handler.Envelope{
		StatusCode: http.StatusUnauthorized,
		Message:    "unauthorized request",
		Success:    false,
	})
}
