package api

import (
	"context"
	"net/http"

	"github.com/foodgram-app/foodgram/internal/storage"
)

// View serialization mirrors the JSON contract the frontend consumes.

type userView struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type tagView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ingredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type recipeIngredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type recipeView struct {
	ID               int64                  `json:"id"`
	Tags             []tagView              `json:"tags"`
	Author           userView               `json:"author"`
	Ingredients      []recipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

type recipeMinifiedView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// authorView extends userView with the author's recipes for the
// subscriptions listing.
type authorView struct {
	userView
	Recipes      []recipeMinifiedView `json:"recipes"`
	RecipesCount int                  `json:"recipes_count"`
}

func mediaURL(r *http.Request, relPath string) *string {
	if relPath == "" {
		return nil
	}
	rendered := baseURL(r) + "/media/" + relPath
	return &rendered
}

func newTagView(tag storage.Tag) tagView {
	return tagView{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
}

func newTagViews(tags []storage.Tag) []tagView {
	views := make([]tagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, newTagView(tag))
	}
	return views
}

func newIngredientView(ingredient storage.Ingredient) ingredientView {
	return ingredientView{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func newRecipeMinifiedView(r *http.Request, recipe storage.Recipe) recipeMinifiedView {
	view := recipeMinifiedView{ID: recipe.ID, Name: recipe.Name, CookingTime: recipe.CookingTime}
	if image := mediaURL(r, recipe.ImagePath); image != nil {
		view.Image = *image
	}
	return view
}

// newUserView resolves the subscription flag against the viewer.
func (s *Server) newUserView(ctx context.Context, r *http.Request, user storage.User) (userView, error) {
	view := userView{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    mediaURL(r, user.AvatarPath),
	}
	if vid := viewerID(ctx); vid != 0 && vid != user.ID {
		subscribed, err := s.store.IsSubscribed(ctx, vid, user.ID)
		if err != nil {
			return userView{}, err
		}
		view.IsSubscribed = subscribed
	}
	return view, nil
}

// newRecipeView resolves viewer-scoped marks and the author card.
func (s *Server) newRecipeView(ctx context.Context, r *http.Request, recipe storage.Recipe) (recipeView, error) {
	author, err := s.store.GetUser(ctx, recipe.AuthorID)
	if err != nil {
		return recipeView{}, err
	}
	authorCard, err := s.newUserView(ctx, r, author)
	if err != nil {
		return recipeView{}, err
	}

	ingredients := make([]recipeIngredientView, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		ingredients = append(ingredients, recipeIngredientView{
			ID:              item.IngredientID,
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
			Amount:          item.Amount,
		})
	}

	view := recipeView{
		ID:          recipe.ID,
		Tags:        newTagViews(recipe.Tags),
		Author:      authorCard,
		Ingredients: ingredients,
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}
	if image := mediaURL(r, recipe.ImagePath); image != nil {
		view.Image = *image
	}

	if vid := viewerID(ctx); vid != 0 {
		if view.IsFavorited, err = s.store.IsFavorite(ctx, vid, recipe.ID); err != nil {
			return recipeView{}, err
		}
		if view.IsInShoppingCart, err = s.store.IsInShoppingCart(ctx, vid, recipe.ID); err != nil {
			return recipeView{}, err
		}
	}
	return view, nil
}

func (s *Server) newRecipeViews(ctx context.Context, r *http.Request, recipes []storage.Recipe) ([]recipeView, error) {
	views := make([]recipeView, 0, len(recipes))
	for _, recipe := range recipes {
		view, err := s.newRecipeView(ctx, r, recipe)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// newAuthorView builds a subscriptions entry with a capped recipe preview.
func (s *Server) newAuthorView(ctx context.Context, r *http.Request, author storage.Author, recipesLimit int) (authorView, error) {
	card, err := s.newUserView(ctx, r, author.User)
	if err != nil {
		return authorView{}, err
	}
	recipes, err := s.store.ListRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return authorView{}, err
	}
	previews := make([]recipeMinifiedView, 0, len(recipes))
	for _, recipe := range recipes {
		previews = append(previews, newRecipeMinifiedView(r, recipe))
	}
	return authorView{userView: card, Recipes: previews, RecipesCount: author.RecipesCount}, nil
}
