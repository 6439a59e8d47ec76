package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/foodgram-app/foodgram/internal/storage"
)

// CreateTag inserts one tag and returns its generated id.
func (s *Store) CreateTag(ctx context.Context, tag storage.Tag) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	name := strings.TrimSpace(tag.Name)
	slug := strings.TrimSpace(tag.Slug)
	if name == "" {
		return 0, fmt.Errorf("tag name is required")
	}
	if slug == "" {
		return 0, fmt.Errorf("tag slug is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, "INSERT INTO tags (name, slug) VALUES (?, ?)", name, slug)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrAlreadyExists
		}
		return 0, fmt.Errorf("create tag: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tag insert id: %w", err)
	}
	return id, nil
}

// GetTag fetches one tag by id.
func (s *Store) GetTag(ctx context.Context, id int64) (storage.Tag, error) {
	if err := ctx.Err(); err != nil {
		return storage.Tag{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Tag{}, err
	}
	var tag storage.Tag
	row := s.sqlDB.QueryRowContext(ctx, "SELECT id, name, slug FROM tags WHERE id = ?", id)
	if err := row.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Tag{}, storage.ErrNotFound
		}
		return storage.Tag{}, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// ListTags returns every tag ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]storage.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, name, slug FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]storage.Tag, 0)
	for rows.Next() {
		var tag storage.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// CreateIngredient inserts one ingredient and returns its generated id.
func (s *Store) CreateIngredient(ctx context.Context, ingredient storage.Ingredient) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	name := strings.TrimSpace(ingredient.Name)
	unit := strings.TrimSpace(ingredient.MeasurementUnit)
	if name == "" {
		return 0, fmt.Errorf("ingredient name is required")
	}
	if unit == "" {
		return 0, fmt.Errorf("measurement unit is required")
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?)",
		name, unit,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrAlreadyExists
		}
		return 0, fmt.Errorf("create ingredient: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ingredient insert id: %w", err)
	}
	return id, nil
}

// GetIngredient fetches one ingredient by id.
func (s *Store) GetIngredient(ctx context.Context, id int64) (storage.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return storage.Ingredient{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Ingredient{}, err
	}
	var ingredient storage.Ingredient
	row := s.sqlDB.QueryRowContext(ctx, "SELECT id, name, measurement_unit FROM ingredients WHERE id = ?", id)
	if err := row.Scan(&ingredient.ID, &ingredient.Name, &ingredient.MeasurementUnit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Ingredient{}, storage.ErrNotFound
		}
		return storage.Ingredient{}, fmt.Errorf("get ingredient: %w", err)
	}
	return ingredient, nil
}

// ListIngredients returns ingredients ordered by name, optionally narrowed to
// a case-insensitive name prefix.
//
// The prefix match is folded in Go rather than SQL: SQLite's lower() only
// handles ASCII, and ingredient names are mostly Cyrillic.
func (s *Store) ListIngredients(ctx context.Context, namePrefix string) ([]storage.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, name, measurement_unit FROM ingredients ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prefix := strings.ToLower(strings.TrimSpace(namePrefix))
	ingredients := make([]storage.Ingredient, 0)
	for rows.Next() {
		var ingredient storage.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.Name, &ingredient.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(ingredient.Name), prefix) {
			continue
		}
		ingredients = append(ingredients, ingredient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return ingredients, nil
}
