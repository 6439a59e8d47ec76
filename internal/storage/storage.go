// Package storage defines persistence contracts for recipe-sharing state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// User stores one registered account.
type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	AvatarPath   string
	CreatedAt    time.Time
}

// Author is a user together with the number of recipes they published.
type Author struct {
	User
	RecipesCount int
}

// Tag stores one recipe tag.
type Tag struct {
	ID   int64
	Name string
	Slug string
}

// Ingredient stores one catalog ingredient.
type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

// RecipeIngredient is one ingredient entry of a recipe with its amount.
type RecipeIngredient struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int
}

// Recipe stores one published recipe with its tag and ingredient sets.
type Recipe struct {
	ID            int64
	AuthorID      int64
	Name          string
	ImagePath     string
	Text          string
	CookingTime   int
	ShortLinkCode string
	CreatedAt     time.Time
	Tags          []Tag
	Ingredients   []RecipeIngredient
}

// MarkFilter narrows recipe listings by a per-viewer mark (favorite or cart).
type MarkFilter int

const (
	// MarkAny applies no mark-based narrowing.
	MarkAny MarkFilter = iota
	// MarkOnly keeps only marked recipes.
	MarkOnly
	// MarkExclude drops marked recipes.
	MarkExclude
)

// RecipeFilter narrows recipe listings.
//
// ViewerID scopes the Favorited and InShoppingCart filters; both are ignored
// when ViewerID is zero.
type RecipeFilter struct {
	AuthorID       int64
	TagSlugs       []string
	Favorited      MarkFilter
	InShoppingCart MarkFilter
	ViewerID       int64
}

// RecipePage stores one page of recipes plus the unpaginated total.
type RecipePage struct {
	Recipes []Recipe
	Total   int
}

// UserPage stores one page of users plus the unpaginated total.
type UserPage struct {
	Users []User
	Total int
}

// AuthorPage stores one page of subscribed authors plus the total.
type AuthorPage struct {
	Authors []Author
	Total   int
}

// ShoppingItem is one aggregated shopping-list line: an ingredient with the
// summed amount across every recipe in the viewer's cart.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int64
}

// AuthToken stores one issued API token.
type AuthToken struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// UserStore persists accounts and subscriptions.
type UserStore interface {
	CreateUser(ctx context.Context, user User) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, limit, offset int) (UserPage, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	UpdateUserAvatar(ctx context.Context, id int64, avatarPath string) error

	Subscribe(ctx context.Context, userID, authorID int64) error
	Unsubscribe(ctx context.Context, userID, authorID int64) error
	IsSubscribed(ctx context.Context, userID, authorID int64) (bool, error)
	ListSubscriptions(ctx context.Context, userID int64, limit, offset int) (AuthorPage, error)
	CountRecipes(ctx context.Context, authorID int64) (int, error)
}

// CatalogStore persists the read-mostly tag and ingredient catalogs.
type CatalogStore interface {
	CreateTag(ctx context.Context, tag Tag) (int64, error)
	GetTag(ctx context.Context, id int64) (Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)

	CreateIngredient(ctx context.Context, ingredient Ingredient) (int64, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error)
}

// RecipeStore persists recipes.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe Recipe) (int64, error)
	SetRecipeShortCode(ctx context.Context, id int64, code string) error
	GetRecipe(ctx context.Context, id int64) (Recipe, error)
	GetRecipeByShortCode(ctx context.Context, code string) (Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter, limit, offset int) (RecipePage, error)
	ListRecipesByAuthor(ctx context.Context, authorID int64, limit int) ([]Recipe, error)
	UpdateRecipe(ctx context.Context, recipe Recipe) error
	DeleteRecipe(ctx context.Context, id int64) error
}

// MarkStore persists per-user recipe marks: favorites and shopping carts.
type MarkStore interface {
	AddFavorite(ctx context.Context, userID, recipeID int64) error
	RemoveFavorite(ctx context.Context, userID, recipeID int64) error
	IsFavorite(ctx context.Context, userID, recipeID int64) (bool, error)

	AddToShoppingCart(ctx context.Context, userID, recipeID int64) error
	RemoveFromShoppingCart(ctx context.Context, userID, recipeID int64) error
	IsInShoppingCart(ctx context.Context, userID, recipeID int64) (bool, error)

	ShoppingList(ctx context.Context, userID int64) ([]ShoppingItem, error)
}

// TokenStore persists issued API tokens.
type TokenStore interface {
	PutToken(ctx context.Context, token AuthToken) error
	GetToken(ctx context.Context, id string) (AuthToken, error)
	DeleteToken(ctx context.Context, id string) error
	DeleteExpiredTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store combines every persistence contract the service relies on.
type Store interface {
	UserStore
	CatalogStore
	RecipeStore
	MarkStore
	TokenStore
}
