package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"

	"github.com/creativ-studio/media-store/pkg/mediastore"
)

type contextKey string

const ownerKey contextKey = "owner_id"

// RequireOwner extracts the authenticated owner identifier from the verified
// JWT's "sub" claim and stores it on the request context. It must run after
// jwtauth.Verifier. The identifier is treated as opaque; absence is the only
// thing checked.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			renderError(w, r, mediastore.ErrUnauthorized, false)
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			renderError(w, r, mediastore.ErrUnauthorized, false)
			return
		}

		ctx := context.WithValue(r.Context(), ownerKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext returns the authenticated owner id, if any.
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}
