package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/foodgram-app/foodgram/internal/auth"
	"github.com/foodgram-app/foodgram/internal/platform/apperr"
	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/storage"
)

const (
	maxBodyBytes      = 4 << 20
	maxUsernameLength = 150
)

// usernamePattern mirrors the letters, digits and @/./+/-/_ rule enforced on
// registration.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.E(apperr.KindNotFound, "not found")
	}
	return id, nil
}

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type registeredView struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Email == "" || req.Username == "" || req.FirstName == "" || req.LastName == "" {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "all fields are required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "invalid email address"))
		return
	}
	if len(req.Username) > maxUsernameLength || !usernamePattern.MatchString(req.Username) {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "invalid username"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.KindInvalidInput, "invalid password", err))
		return
	}

	ctx := httpx.RequestContext(r)
	id, err := s.store.CreateUser(ctx, storage.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "user with this email or username already exists"))
			return
		}
		httpx.WriteError(w, err)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusCreated, registeredView{
		Email:     req.Email,
		ID:        id,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	page, err := s.store.ListUsers(ctx, params.limit, params.offset())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	views := make([]userView, 0, len(page.Users))
	for _, user := range page.Users {
		view, err := s.newUserView(ctx, r, user)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		views = append(views, view)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newPageView(r, params, page.Total, views))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindNotFound, "user not found"))
			return
		}
		httpx.WriteError(w, err)
		return
	}

	view, err := s.newUserView(ctx, r, user)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	user, _ := viewer(ctx)
	view, err := s.newUserView(ctx, r, user)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password"`
	CurrentPassword string `json:"current_password"`
}

func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	user, _ := viewer(ctx)
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "current password is incorrect"))
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.KindInvalidInput, "invalid new password", err))
		return
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

type avatarView struct {
	Avatar *string `json:"avatar"`
}

func (s *Server) handleGetAvatar(w http.ResponseWriter, r *http.Request) {
	user, _ := viewer(httpx.RequestContext(r))
	_ = httpx.WriteJSON(w, http.StatusOK, avatarView{Avatar: mediaURL(r, user.AvatarPath)})
}

func (s *Server) handleSetAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Avatar) == "" {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "avatar is required"))
		return
	}

	relPath, err := s.media.SaveDataURI("avatars", req.Avatar)
	if err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.KindInvalidInput, "invalid avatar image", err))
		return
	}

	ctx := httpx.RequestContext(r)
	user, _ := viewer(ctx)
	if err := s.store.UpdateUserAvatar(ctx, user.ID, relPath); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if user.AvatarPath != "" {
		_ = s.media.Remove(user.AvatarPath)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, avatarView{Avatar: mediaURL(r, relPath)})
}

func (s *Server) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	user, _ := viewer(ctx)
	if err := s.store.UpdateUserAvatar(ctx, user.ID, ""); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if user.AvatarPath != "" {
		_ = s.media.Remove(user.AvatarPath)
	}
	w.WriteHeader(http.StatusNoContent)
}

// recipesLimit reads the optional ?recipes_limit= preview cap. Invalid or
// non-positive values are ignored rather than rejected.
func recipesLimit(r *http.Request) int {
	raw := r.URL.Query().Get("recipes_limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	page, err := s.store.ListSubscriptions(ctx, viewerID(ctx), params.limit, params.offset())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	limit := recipesLimit(r)
	views := make([]authorView, 0, len(page.Authors))
	for _, author := range page.Authors {
		view, err := s.newAuthorView(ctx, r, author, limit)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		// The viewer is subscribed to everyone on this page.
		view.IsSubscribed = true
		views = append(views, view)
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newPageView(r, params, page.Total, views))
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindNotFound, "user not found"))
			return
		}
		httpx.WriteError(w, err)
		return
	}

	vid := viewerID(ctx)
	if vid == authorID {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "cannot subscribe to yourself"))
		return
	}
	if err := s.store.Subscribe(ctx, vid, authorID); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "already subscribed"))
			return
		}
		httpx.WriteError(w, err)
		return
	}

	count, err := s.store.CountRecipes(ctx, authorID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	view, err := s.newAuthorView(ctx, r, storage.Author{User: author, RecipesCount: count}, recipesLimit(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	view.IsSubscribed = true
	_ = httpx.WriteJSON(w, http.StatusCreated, view)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	if _, err := s.store.GetUser(ctx, authorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindNotFound, "user not found"))
			return
		}
		httpx.WriteError(w, err)
		return
	}
	if err := s.store.Unsubscribe(ctx, viewerID(ctx), authorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "not subscribed"))
			return
		}
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
