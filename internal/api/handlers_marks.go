package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/foodgram-app/foodgram/internal/platform/apperr"
	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/storage"
)

// Favorites and the shopping cart share add/remove semantics: adding
// twice and removing what was never added are both client errors.

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	s.addMark(w, r, s.store.AddFavorite, "recipe is already in favorites")
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.removeMark(w, r, s.store.RemoveFavorite, "recipe is not in favorites")
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	s.addMark(w, r, s.store.AddToShoppingCart, "recipe is already in the shopping cart")
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s.removeMark(w, r, s.store.RemoveFromShoppingCart, "recipe is not in the shopping cart")
}

func (s *Server) addMark(w http.ResponseWriter, r *http.Request, add func(context.Context, int64, int64) error, dupMessage string) {
	recipe, err := s.getRecipe(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	ctx := httpx.RequestContext(r)
	if err := add(ctx, viewerID(ctx), recipe.ID); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, dupMessage))
			return
		}
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, newRecipeMinifiedView(r, recipe))
}

func (s *Server) removeMark(w http.ResponseWriter, r *http.Request, remove func(context.Context, int64, int64) error, missingMessage string) {
	recipe, err := s.getRecipe(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	ctx := httpx.RequestContext(r)
	if err := remove(ctx, viewerID(ctx), recipe.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, missingMessage))
			return
		}
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
