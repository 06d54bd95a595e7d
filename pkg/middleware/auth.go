package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwtutil "github.com/Dias221467/Habit_Tracker/pkg/jwt"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserContextKey    contextKey = "user"
	RequestIDKey      contextKey = "request_id"
	RequestIDHeader              = "X-Request-ID"
	authorizationType            = "Bearer"
)

// AuthMiddleware rejects requests without a valid bearer access token and
// stores its claims in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != authorizationType || parts[1] == "" {
				logrus.WithField("path", r.URL.Path).Warn("Missing or malformed Authorization header")
				unauthorized(w, "Authentication credentials were not provided.")
				return
			}

			claims, err := jwtutil.ParseToken(parts[1], secret, jwtutil.AccessToken)
			if err != nil {
				logrus.WithField("path", r.URL.Path).WithError(err).Warn("Rejected access token")
				unauthorized(w, "Given token not valid for any token type")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the claims stored by AuthMiddleware, or nil.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(UserContextKey).(*jwtutil.Claims)
	return claims
}

// GetUserID returns the authenticated user id, or "".
func GetUserID(ctx context.Context) string {
	if claims := GetUserFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", authorizationType)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
