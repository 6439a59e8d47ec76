package api

import (
	"errors"
	"net/http"

	"github.com/foodgram-app/foodgram/internal/platform/apperr"
	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/storage"
)

// Tag and ingredient catalogs are read-only and unpaginated.

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newTagViews(tags))
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	tag, err := s.store.GetTag(httpx.RequestContext(r), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindNotFound, "tag not found"))
			return
		}
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newTagView(tag))
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.store.ListIngredients(httpx.RequestContext(r), r.URL.Query().Get("name"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	views := make([]ingredientView, 0, len(ingredients))
	for _, ingredient := range ingredients {
		views = append(views, newIngredientView(ingredient))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	ingredient, err := s.store.GetIngredient(httpx.RequestContext(r), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, apperr.E(apperr.KindNotFound, "ingredient not found"))
			return
		}
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newIngredientView(ingredient))
}
