// Package api implements the JSON HTTP interface of the recipe service.
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/foodgram-app/foodgram/internal/auth"
	"github.com/foodgram-app/foodgram/internal/media"
	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/storage"
)

// Config carries the server's collaborators and settings.
type Config struct {
	Store storage.Store
	// Signer mints and verifies access tokens.
	Signer *auth.Signer
	// Media stores uploaded recipe images and avatars.
	Media *media.Dir
	// LinkSecret seeds deterministic recipe short codes.
	LinkSecret string
	// FrontendURL is the SPA origin short links redirect to.
	FrontendURL string
}

// Server handles the JSON API.
type Server struct {
	store       storage.Store
	signer      *auth.Signer
	media       *media.Dir
	linkSecret  string
	frontendURL string
}

// NewServer validates configuration and builds a Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Signer == nil {
		return nil, fmt.Errorf("token signer is required")
	}
	if cfg.Media == nil {
		return nil, fmt.Errorf("media storage is required")
	}
	if strings.TrimSpace(cfg.LinkSecret) == "" {
		return nil, fmt.Errorf("link secret is required")
	}
	return &Server{
		store:       cfg.Store,
		signer:      cfg.Signer,
		media:       cfg.Media,
		linkSecret:  cfg.LinkSecret,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
	}, nil
}

// Handler builds the API route table.
//
// Routes mirror the structure the frontend expects: djoser-style user and
// token endpoints plus the recipe resources.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Users and subscriptions.
	mux.Handle("POST /api/users/{$}", s.public(s.handleRegister))
	mux.Handle("GET /api/users/{$}", s.optionalAuth(s.handleListUsers))
	mux.Handle("GET /api/users/me/{$}", s.requireAuth(s.handleMe))
	mux.Handle("GET /api/users/me/avatar/{$}", s.requireAuth(s.handleGetAvatar))
	mux.Handle("PUT /api/users/me/avatar/{$}", s.requireAuth(s.handleSetAvatar))
	mux.Handle("DELETE /api/users/me/avatar/{$}", s.requireAuth(s.handleDeleteAvatar))
	mux.Handle("POST /api/users/set_password/{$}", s.requireAuth(s.handleSetPassword))
	mux.Handle("GET /api/users/subscriptions/{$}", s.requireAuth(s.handleListSubscriptions))
	mux.Handle("GET /api/users/{id}/{$}", s.optionalAuth(s.handleGetUser))
	mux.Handle("POST /api/users/{id}/subscribe/{$}", s.requireAuth(s.handleSubscribe))
	mux.Handle("DELETE /api/users/{id}/subscribe/{$}", s.requireAuth(s.handleUnsubscribe))

	// Tokens.
	mux.Handle("POST /api/auth/token/login/{$}", s.public(s.handleTokenLogin))
	mux.Handle("POST /api/auth/token/logout/{$}", s.requireAuth(s.handleTokenLogout))

	// Catalogs.
	mux.Handle("GET /api/tags/{$}", s.public(s.handleListTags))
	mux.Handle("GET /api/tags/{id}/{$}", s.public(s.handleGetTag))
	mux.Handle("GET /api/ingredients/{$}", s.public(s.handleListIngredients))
	mux.Handle("GET /api/ingredients/{id}/{$}", s.public(s.handleGetIngredient))

	// Recipes.
	mux.Handle("GET /api/recipes/{$}", s.optionalAuth(s.handleListRecipes))
	mux.Handle("POST /api/recipes/{$}", s.requireAuth(s.handleCreateRecipe))
	mux.Handle("GET /api/recipes/download_shopping_cart/{$}", s.requireAuth(s.handleDownloadShoppingCart))
	mux.Handle("GET /api/recipes/{id}/{$}", s.optionalAuth(s.handleGetRecipe))
	mux.Handle("PATCH /api/recipes/{id}/{$}", s.requireAuth(s.handleUpdateRecipe))
	mux.Handle("DELETE /api/recipes/{id}/{$}", s.requireAuth(s.handleDeleteRecipe))
	mux.Handle("GET /api/recipes/{id}/get-link/{$}", s.public(s.handleGetLink))
	mux.Handle("POST /api/recipes/{id}/favorite/{$}", s.requireAuth(s.handleAddFavorite))
	mux.Handle("DELETE /api/recipes/{id}/favorite/{$}", s.requireAuth(s.handleRemoveFavorite))
	mux.Handle("POST /api/recipes/{id}/shopping_cart/{$}", s.requireAuth(s.handleAddToCart))
	mux.Handle("DELETE /api/recipes/{id}/shopping_cart/{$}", s.requireAuth(s.handleRemoveFromCart))

	// Short links and uploaded media.
	mux.Handle("GET /s/{code}", s.public(s.handleShortLinkRedirect))
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.media.Root()))))

	return httpx.Chain(mux, httpx.RecoverPanic(), httpx.RequestID())
}

func (s *Server) public(h http.HandlerFunc) http.Handler {
	return h
}
