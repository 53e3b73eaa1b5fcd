package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RadicalxChange/lanna-edges/configs"
	"github.com/RadicalxChange/lanna-edges/internal/httputil"
	"github.com/RadicalxChange/lanna-edges/internal/logger"
)

type contextKey string

// AccountIDContextKey holds the authenticated caller's ledger account ID.
const AccountIDContextKey contextKey = "accountID"

// AccountID extracts the authenticated account from the request context.
func AccountID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(AccountIDContextKey).(uint)
	return id, ok
}

func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(configs.AppConfig.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			logger.Log.Error("jwt subject missing or wrong type")
			httputil.WriteError(w, http.StatusUnauthorized, "invalid token payload")
			return
		}

		accountID := uint(sub)

		ctx := context.WithValue(r.Context(), AccountIDContextKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
