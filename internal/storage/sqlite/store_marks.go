package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/foodgram-app/foodgram/internal/storage"
)

// AddFavorite marks a recipe as a favorite of the user.
func (s *Store) AddFavorite(ctx context.Context, userID, recipeID int64) error {
	return s.addMark(ctx, "favorites", userID, recipeID)
}

// RemoveFavorite removes a favorite mark.
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return s.removeMark(ctx, "favorites", userID, recipeID)
}

// IsFavorite reports whether the user favorited the recipe.
func (s *Store) IsFavorite(ctx context.Context, userID, recipeID int64) (bool, error) {
	return s.hasMark(ctx, "favorites", userID, recipeID)
}

// AddToShoppingCart puts a recipe into the user's shopping cart.
func (s *Store) AddToShoppingCart(ctx context.Context, userID, recipeID int64) error {
	return s.addMark(ctx, "shopping_cart", userID, recipeID)
}

// RemoveFromShoppingCart removes a recipe from the user's shopping cart.
func (s *Store) RemoveFromShoppingCart(ctx context.Context, userID, recipeID int64) error {
	return s.removeMark(ctx, "shopping_cart", userID, recipeID)
}

// IsInShoppingCart reports whether the recipe sits in the user's cart.
func (s *Store) IsInShoppingCart(ctx context.Context, userID, recipeID int64) (bool, error) {
	return s.hasMark(ctx, "shopping_cart", userID, recipeID)
}

// ShoppingList aggregates ingredient amounts across every recipe in the
// user's cart, ordered by ingredient name.
func (s *Store) ShoppingList(ctx context.Context, userID int64) ([]storage.ShoppingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT i.name, i.measurement_unit, SUM(ri.amount) AS total_amount
		   FROM shopping_cart c
		   JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		   JOIN ingredients i ON i.id = ri.ingredient_id
		  WHERE c.user_id = ?
		  GROUP BY i.id
		  ORDER BY i.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]storage.ShoppingItem, 0)
	for rows.Next() {
		var item storage.ShoppingItem
		if err := rows.Scan(&item.Name, &item.MeasurementUnit, &item.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shopping items: %w", err)
	}
	return items, nil
}

func (s *Store) addMark(ctx context.Context, table string, userID, recipeID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO "+table+" (user_id, recipe_id, created_at) VALUES (?, ?, ?)",
		userID, recipeID, toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("add %s mark: %w", table, err)
	}
	return nil
}

func (s *Store) removeMark(ctx context.Context, table string, userID, recipeID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		"DELETE FROM "+table+" WHERE user_id = ? AND recipe_id = ?",
		userID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("remove %s mark: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove %s rows: %w", table, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) hasMark(ctx context.Context, table string, userID, recipeID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	var found int
	row := s.sqlDB.QueryRowContext(
		ctx,
		"SELECT 1 FROM "+table+" WHERE user_id = ? AND recipe_id = ?",
		userID, recipeID,
	)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s mark: %w", table, err)
	}
	return true, nil
}
