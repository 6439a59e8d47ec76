package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/foodgram-app/foodgram/internal/platform/apperr"
	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/storage"
)

type contextKey string

const viewerKey contextKey = "viewer"

// tokenScheme is the Authorization scheme the frontend sends.
const tokenScheme = "Token "

// viewer returns the authenticated user, if any.
func viewer(ctx context.Context) (storage.User, bool) {
	user, ok := ctx.Value(viewerKey).(storage.User)
	return user, ok
}

// viewerID returns the authenticated user id, or zero for anonymous.
func viewerID(ctx context.Context) int64 {
	user, ok := viewer(ctx)
	if !ok {
		return 0
	}
	return user.ID
}

// authenticate resolves the Authorization header to a stored user. The
// token must verify and still be present in the allowlist, so logged-out
// tokens stop working before they expire.
func (s *Server) authenticate(r *http.Request) (storage.User, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return storage.User{}, apperr.E(apperr.KindUnauthorized, "authentication credentials were not provided")
	}
	if !strings.HasPrefix(header, tokenScheme) {
		return storage.User{}, apperr.E(apperr.KindUnauthorized, "invalid authorization scheme")
	}

	claims, err := s.signer.Verify(strings.TrimSpace(header[len(tokenScheme):]))
	if err != nil {
		return storage.User{}, apperr.Wrap(apperr.KindUnauthorized, "invalid token", err)
	}
	if _, err := s.store.GetToken(httpx.RequestContext(r), claims.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperr.E(apperr.KindUnauthorized, "token has been revoked")
		}
		return storage.User{}, err
	}
	user, err := s.store.GetUser(httpx.RequestContext(r), claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperr.E(apperr.KindUnauthorized, "user no longer exists")
		}
		return storage.User{}, err
	}
	return user, nil
}

// requireAuth rejects anonymous requests.
func (s *Server) requireAuth(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authenticate(r)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), viewerKey, user)))
	})
}

// optionalAuth resolves credentials when present but allows anonymous
// access. Presented-but-invalid tokens are still rejected.
func (s *Server) optionalAuth(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			h(w, r)
			return
		}
		user, err := s.authenticate(r)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), viewerKey, user)))
	})
}
