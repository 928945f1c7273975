package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"mealcall-app-go/internal/auth"
)

type contextKey int

const userKey contextKey = iota

// CurrentUser is the authenticated member extracted from the access
// token.
type CurrentUser struct {
	MemberID string
	FamilyID string
	Nickname string
	Role     string
}

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	VerifyAccess(token string) (*auth.Claims, error)
}

type JWTAuth struct {
	tokens TokenVerifier
}

func NewJWTAuth(tokens TokenVerifier) *JWTAuth {
	return &JWTAuth{tokens: tokens}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeAuthError(w, "missing bearer token")
			return
		}

		claims, err := a.tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeAuthError(w, "invalid or expired token")
			return
		}

		user := CurrentUser{
			MemberID: claims.Subject,
			FamilyID: claims.FamilyID,
			Nickname: claims.Nickname,
			Role:     claims.Role,
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func WithUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated member, if any.
func UserFrom(ctx context.Context) (CurrentUser, bool) {
	user, ok := ctx.Value(userKey).(CurrentUser)
	return user, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": "unauthorized", "message": message},
	})
}
