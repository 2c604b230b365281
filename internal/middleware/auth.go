package middleware

import (
	"net/http"
	"strings"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/ctxkeys"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/respond"
)

// TokenVerifier resolves a bearer token to the caller's identity.
type TokenVerifier interface {
	VerifyJWT(token string) (*model.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token before the
// wrapped handler runs, so unauthenticated writes never touch storage or
// the database. On success the identity is added to the request context.
func RequireAuth(verifier TokenVerifier) Guard {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Error(w, r, apperr.Unauthorized("No token, authorization denied"))
				return
			}

			identity, err := verifier.VerifyJWT(token)
			if err != nil {
				if !apperr.Is(err, apperr.KindUnauthorized) {
					err = apperr.E(apperr.KindUnauthorized, "Token is not valid", err)
				}
				respond.Error(w, r, err)
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next(w, r.WithContext(ctx))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
