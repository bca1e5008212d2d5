package middleware

import (
	"context"
	"net/http"

	"github.com/yuuuno/sweeper/internal/config"
)

type ctxKey int

const ctxAccountClaims ctxKey = iota

// Auth attaches parsed account claims to the request context. Requests
// without valid cookies pass through anonymous, with the stale cookie
// pair cleared.
func Auth(cookies *config.Cookies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseAccountClaims(r)
			if err != nil {
				cookies.Clear(w)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxAccountClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountClaims extracts the claims Auth stored, if any.
func AccountClaims(r *http.Request) (*config.AccountClaims, bool) {
	claims, ok := r.Context().Value(ctxAccountClaims).(*config.AccountClaims)
	return claims, ok
}
