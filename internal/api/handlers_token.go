package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/foodgram-app/foodgram/internal/auth"
	"github.com/foodgram-app/foodgram/internal/platform/apperr"
	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/storage"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenView struct {
	AuthToken string `json:"auth_token"`
}

func (s *Server) handleTokenLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "unable to log in with provided credentials"))
			return
		}
		httpx.WriteError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "unable to log in with provided credentials"))
		return
	}

	token, err := s.signer.Mint(user.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	err = s.store.PutToken(ctx, storage.AuthToken{
		ID:        token.ID,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, tokenView{AuthToken: token.Signed})
}

func (s *Server) handleTokenLogout(w http.ResponseWriter, r *http.Request) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	claims, err := s.signer.Verify(strings.TrimSpace(strings.TrimPrefix(header, tokenScheme)))
	if err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.KindUnauthorized, "invalid token", err))
		return
	}
	if err := s.store.DeleteToken(httpx.RequestContext(r), claims.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
