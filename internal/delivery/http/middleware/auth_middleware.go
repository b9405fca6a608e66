package middleware

import (
	"context"
	"net/http"
	"strings"

	"meditrack-backend/pkg/jwt"
	"meditrack-backend/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const IdentityKey contextKey = "identity"

type AuthMiddleware struct {
	verifier jwt.Verifier
	log      *logrus.Logger
}

func NewAuthMiddleware(verifier jwt.Verifier, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		log:      log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract token from "Bearer <token>"
		authHeader := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			response.Unauthorized(w, "No token provided")
			return
		}

		identity, err := m.verifier.Verify(r.Context(), tokenString)
		if err != nil {
			m.log.Debugf("Rejected token: %v", err)
			response.Unauthorized(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentityFromContext extracts the verified caller from context
func GetIdentityFromContext(ctx context.Context) (*jwt.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*jwt.Identity)
	return identity, ok && identity != nil
}

// GetUserIDFromContext extracts the caller's subject id from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return identity.SubjectID, true
}
