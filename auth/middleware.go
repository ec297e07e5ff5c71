package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey struct{}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(contextKey{}).(*Session)
	return session, ok && session != nil
}

// TokenFromRequest reads a bearer token from the Authorization header, falling back
// to the token query parameter for EventSource clients that cannot set headers.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

type Authenticator struct {
	Store SessionStore
}

func NewAuthenticator(store SessionStore) *Authenticator {
	return &Authenticator{Store: store}
}

// Guard authenticates the request and, when perm is not empty, checks it against
// the role permission table before calling next.
func (a *Authenticator) Guard(perm Permission, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.Store.Lookup(r.Context(), TokenFromRequest(r))
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				log.Error().Err(err).Msg("session lookup failed")
			}
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if perm != "" && !Can(session.Role, perm) {
			log.Warn().Int64("account_id", session.AccountID).Str("role", session.Role.String()).
				Str("permission", string(perm)).Msg("permission denied")
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Require is Guard in middleware form, for mux.Router.Use on subrouters.
func (a *Authenticator) Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.Guard(perm, next.ServeHTTP)
	}
}
