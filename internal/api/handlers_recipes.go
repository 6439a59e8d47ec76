package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/foodgram-app/foodgram/internal/platform/apperr"
	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/shopping"
	"github.com/foodgram-app/foodgram/internal/shortlink"
	"github.com/foodgram-app/foodgram/internal/storage"
)

const maxRecipeNameLength = 256

// parseMarkFilter reads a 1/0 query flag into a MarkFilter.
func parseMarkFilter(value string) storage.MarkFilter {
	switch value {
	case "1", "true":
		return storage.MarkOnly
	case "0", "false":
		return storage.MarkExclude
	default:
		return storage.MarkAny
	}
}

func parseRecipeFilter(r *http.Request) storage.RecipeFilter {
	query := r.URL.Query()
	filter := storage.RecipeFilter{
		TagSlugs: query["tags"],
		ViewerID: viewerID(r.Context()),
	}
	if raw := query.Get("author"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.AuthorID = id
		}
	}
	if filter.ViewerID != 0 {
		filter.Favorited = parseMarkFilter(query.Get("is_favorited"))
		filter.InShoppingCart = parseMarkFilter(query.Get("is_in_shopping_cart"))
	}
	return filter
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	page, err := s.store.ListRecipes(ctx, parseRecipeFilter(r), params.limit, params.offset())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	views, err := s.newRecipeViews(ctx, r, page.Recipes)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newPageView(r, params, page.Total, views))
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.getRecipe(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	ctx := httpx.RequestContext(r)
	view, err := s.newRecipeView(ctx, r, recipe)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) getRecipe(r *http.Request) (storage.Recipe, error) {
	id, err := pathID(r)
	if err != nil {
		return storage.Recipe{}, err
	}
	recipe, err := s.store.GetRecipe(httpx.RequestContext(r), id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Recipe{}, apperr.E(apperr.KindNotFound, "recipe not found")
	}
	return recipe, err
}

type recipeIngredientInput struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

type recipeRequest struct {
	Ingredients []recipeIngredientInput `json:"ingredients"`
	Tags        []int64                 `json:"tags"`
	Image       string                  `json:"image"`
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	CookingTime int                     `json:"cooking_time"`
}

// resolveRecipeInput validates references and assembles a storable recipe.
func (s *Server) resolveRecipeInput(r *http.Request, req recipeRequest) (storage.Recipe, error) {
	if strings.TrimSpace(req.Name) == "" {
		return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "name is required")
	}
	if len([]rune(req.Name)) > maxRecipeNameLength {
		return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "name is too long")
	}
	if req.CookingTime < 1 {
		return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "cooking time must be at least 1")
	}
	if len(req.Tags) == 0 {
		return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "at least one tag is required")
	}
	if len(req.Ingredients) == 0 {
		return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "at least one ingredient is required")
	}

	ctx := httpx.RequestContext(r)
	recipe := storage.Recipe{
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	seenTags := make(map[int64]bool, len(req.Tags))
	for _, tagID := range req.Tags {
		if seenTags[tagID] {
			return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "duplicate tag")
		}
		seenTags[tagID] = true
		tag, err := s.store.GetTag(ctx, tagID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, fmt.Sprintf("tag %d does not exist", tagID))
			}
			return storage.Recipe{}, err
		}
		recipe.Tags = append(recipe.Tags, tag)
	}

	seenIngredients := make(map[int64]bool, len(req.Ingredients))
	for _, input := range req.Ingredients {
		if input.Amount < 1 {
			return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "ingredient amount must be at least 1")
		}
		if seenIngredients[input.ID] {
			return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, "duplicate ingredient")
		}
		seenIngredients[input.ID] = true
		ingredient, err := s.store.GetIngredient(ctx, input.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.Recipe{}, apperr.E(apperr.KindInvalidInput, fmt.Sprintf("ingredient %d does not exist", input.ID))
			}
			return storage.Recipe{}, err
		}
		recipe.Ingredients = append(recipe.Ingredients, storage.RecipeIngredient{
			IngredientID:    ingredient.ID,
			Name:            ingredient.Name,
			MeasurementUnit: ingredient.MeasurementUnit,
			Amount:          input.Amount,
		})
	}
	return recipe, nil
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	recipe, err := s.resolveRecipeInput(r, req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "image is required"))
		return
	}
	imagePath, err := s.media.SaveDataURI("recipes", req.Image)
	if err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.KindInvalidInput, "invalid recipe image", err))
		return
	}

	ctx := httpx.RequestContext(r)
	recipe.AuthorID = viewerID(ctx)
	recipe.ImagePath = imagePath
	id, err := s.store.CreateRecipe(ctx, recipe)
	if err != nil {
		_ = s.media.Remove(imagePath)
		httpx.WriteError(w, apperr.Wrap(apperr.KindInvalidInput, "invalid recipe", err))
		return
	}
	if err := s.store.SetRecipeShortCode(ctx, id, shortlink.Code(s.linkSecret, id)); err != nil {
		httpx.WriteError(w, err)
		return
	}

	created, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	view, err := s.newRecipeView(ctx, r, created)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, view)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	existing, err := s.getRecipe(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	ctx := httpx.RequestContext(r)
	if existing.AuthorID != viewerID(ctx) {
		httpx.WriteError(w, apperr.E(apperr.KindForbidden, "only the author can edit a recipe"))
		return
	}

	var req recipeRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	recipe, err := s.resolveRecipeInput(r, req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	recipe.ID = existing.ID
	recipe.AuthorID = existing.AuthorID
	recipe.ImagePath = existing.ImagePath
	if strings.TrimSpace(req.Image) != "" {
		imagePath, err := s.media.SaveDataURI("recipes", req.Image)
		if err != nil {
			httpx.WriteError(w, apperr.Wrap(apperr.KindInvalidInput, "invalid recipe image", err))
			return
		}
		recipe.ImagePath = imagePath
	}

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.KindInvalidInput, "invalid recipe", err))
		return
	}
	if recipe.ImagePath != existing.ImagePath && existing.ImagePath != "" {
		_ = s.media.Remove(existing.ImagePath)
	}

	updated, err := s.store.GetRecipe(ctx, existing.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	view, err := s.newRecipeView(ctx, r, updated)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	existing, err := s.getRecipe(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	ctx := httpx.RequestContext(r)
	if existing.AuthorID != viewerID(ctx) {
		httpx.WriteError(w, apperr.E(apperr.KindForbidden, "only the author can delete a recipe"))
		return
	}
	if err := s.store.DeleteRecipe(ctx, existing.ID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = s.media.Remove(existing.ImagePath)
	w.WriteHeader(http.StatusNoContent)
}

type shortLinkView struct {
	ShortLink string `json:"short-link"`
}

func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.getRecipe(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ctx := httpx.RequestContext(r)
	code := recipe.ShortLinkCode
	if code == "" {
		code = shortlink.Code(s.linkSecret, recipe.ID)
		if err := s.store.SetRecipeShortCode(ctx, recipe.ID, code); err != nil {
			httpx.WriteError(w, err)
			return
		}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, shortLinkView{ShortLink: baseURL(r) + "/s/" + code})
}

// handleShortLinkRedirect sends short-link visitors to the frontend
// recipe page. Unknown codes fall back to a base36 recipe id, and
// anything else lands on the frontend root.
func (s *Server) handleShortLinkRedirect(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	code := r.PathValue("code")

	recipe, err := s.store.GetRecipeByShortCode(ctx, code)
	if err == nil {
		http.Redirect(w, r, fmt.Sprintf("%s/recipes/%d/", s.frontendURL, recipe.ID), http.StatusFound)
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		httpx.WriteError(w, err)
		return
	}

	if id, ok := shortlink.DecodeRecipeID(code); ok {
		if recipe, err := s.store.GetRecipe(ctx, id); err == nil {
			http.Redirect(w, r, fmt.Sprintf("%s/recipes/%d/", s.frontendURL, recipe.ID), http.StatusFound)
			return
		}
	}
	http.Redirect(w, r, s.frontendURL, http.StatusFound)
}

func (s *Server) handleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	user, _ := viewer(ctx)
	items, err := s.store.ShoppingList(ctx, user.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if len(items) == 0 {
		httpx.WriteError(w, apperr.E(apperr.KindInvalidInput, "shopping cart is empty"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shopping.FileName(user.Username)))
	_, _ = fmt.Fprint(w, shopping.RenderText(items, user))
}
