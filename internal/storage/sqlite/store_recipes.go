package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodgram-app/foodgram/internal/storage"
)

const recipeColumns = "id, author_id, name, image_path, text, cooking_time, COALESCE(short_link_code, ''), created_at"

func scanRecipe(row interface{ Scan(...any) error }) (storage.Recipe, error) {
	var recipe storage.Recipe
	var createdAt int64
	err := row.Scan(
		&recipe.ID,
		&recipe.AuthorID,
		&recipe.Name,
		&recipe.ImagePath,
		&recipe.Text,
		&recipe.CookingTime,
		&recipe.ShortLinkCode,
		&createdAt,
	)
	if err != nil {
		return storage.Recipe{}, err
	}
	recipe.CreatedAt = fromMillis(createdAt)
	return recipe, nil
}

func validateRecipe(recipe storage.Recipe) error {
	if strings.TrimSpace(recipe.Name) == "" {
		return fmt.Errorf("recipe name is required")
	}
	if recipe.AuthorID <= 0 {
		return fmt.Errorf("author id is required")
	}
	if recipe.CookingTime < 1 {
		return fmt.Errorf("cooking time must be at least one minute")
	}
	if len(recipe.Tags) == 0 {
		return fmt.Errorf("at least one tag is required")
	}
	if len(recipe.Ingredients) == 0 {
		return fmt.Errorf("at least one ingredient is required")
	}
	for _, entry := range recipe.Ingredients {
		if entry.Amount < 1 {
			return fmt.Errorf("ingredient amount must be at least one")
		}
	}
	return nil
}

// CreateRecipe inserts one recipe with its tag and ingredient sets and
// returns the generated id.
func (s *Store) CreateRecipe(ctx context.Context, recipe storage.Recipe) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	if err := validateRecipe(recipe); err != nil {
		return 0, err
	}
	createdAt := recipe.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO recipes (author_id, name, image_path, text, cooking_time, short_link_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		recipe.AuthorID,
		strings.TrimSpace(recipe.Name),
		recipe.ImagePath,
		recipe.Text,
		recipe.CookingTime,
		nullableString(recipe.ShortLinkCode),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrAlreadyExists
		}
		return 0, fmt.Errorf("create recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recipe insert id: %w", err)
	}

	if err := insertRecipeRelations(ctx, tx, id, recipe); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit recipe: %w", err)
	}
	return id, nil
}

// SetRecipeShortCode stores the short-link code for a recipe.
func (s *Store) SetRecipeShortCode(ctx context.Context, id int64, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("short code is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, "UPDATE recipes SET short_link_code = ? WHERE id = ?", code, id)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("set short code: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set short code rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetRecipe fetches one recipe by id with tags and ingredients attached.
func (s *Store) GetRecipe(ctx context.Context, id int64) (storage.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return storage.Recipe{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Recipe{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Recipe{}, storage.ErrNotFound
		}
		return storage.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	if err := s.hydrateRecipes(ctx, []*storage.Recipe{&recipe}); err != nil {
		return storage.Recipe{}, err
	}
	return recipe, nil
}

// GetRecipeByShortCode fetches one recipe by its short-link code.
func (s *Store) GetRecipeByShortCode(ctx context.Context, code string) (storage.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return storage.Recipe{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Recipe{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return storage.Recipe{}, fmt.Errorf("short code is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE short_link_code = ?", code)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Recipe{}, storage.ErrNotFound
		}
		return storage.Recipe{}, fmt.Errorf("get recipe by short code: %w", err)
	}
	if err := s.hydrateRecipes(ctx, []*storage.Recipe{&recipe}); err != nil {
		return storage.Recipe{}, err
	}
	return recipe, nil
}

// ListRecipes returns one page of recipes matching the filter, newest first.
func (s *Store) ListRecipes(ctx context.Context, filter storage.RecipeFilter, limit, offset int) (storage.RecipePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.RecipePage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.RecipePage{}, err
	}
	if limit <= 0 {
		return storage.RecipePage{}, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		offset = 0
	}

	where, args := buildRecipeFilter(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM recipes r" + where
	if err := s.sqlDB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return storage.RecipePage{}, fmt.Errorf("count recipes: %w", err)
	}

	query := "SELECT " + prefixedRecipeColumns("r") + " FROM recipes r" + where +
		" ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?"
	rows, err := s.sqlDB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return storage.RecipePage{}, fmt.Errorf("list recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	page := storage.RecipePage{Total: total, Recipes: make([]storage.Recipe, 0, limit)}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return storage.RecipePage{}, fmt.Errorf("scan recipe: %w", err)
		}
		page.Recipes = append(page.Recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return storage.RecipePage{}, fmt.Errorf("iterate recipes: %w", err)
	}

	refs := make([]*storage.Recipe, len(page.Recipes))
	for idx := range page.Recipes {
		refs[idx] = &page.Recipes[idx]
	}
	if err := s.hydrateRecipes(ctx, refs); err != nil {
		return storage.RecipePage{}, err
	}
	return page, nil
}

// ListRecipesByAuthor returns the author's newest recipes, capped at limit
// when limit is positive.
func (s *Store) ListRecipesByAuthor(ctx context.Context, authorID int64, limit int) ([]storage.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := "SELECT " + recipeColumns + " FROM recipes WHERE author_id = ? ORDER BY created_at DESC, id DESC"
	args := []any{authorID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes by author: %w", err)
	}
	defer func() { _ = rows.Close() }()

	recipes := make([]storage.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}

	refs := make([]*storage.Recipe, len(recipes))
	for idx := range recipes {
		refs[idx] = &recipes[idx]
	}
	if err := s.hydrateRecipes(ctx, refs); err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpdateRecipe replaces a recipe's fields and its tag and ingredient sets.
func (s *Store) UpdateRecipe(ctx context.Context, recipe storage.Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if recipe.ID <= 0 {
		return fmt.Errorf("recipe id is required")
	}
	if err := validateRecipe(recipe); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(
		ctx,
		"UPDATE recipes SET name = ?, image_path = ?, text = ?, cooking_time = ? WHERE id = ?",
		strings.TrimSpace(recipe.Name),
		recipe.ImagePath,
		recipe.Text,
		recipe.CookingTime,
		recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update recipe rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID); err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id = ?", recipe.ID); err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	if err := insertRecipeRelations(ctx, tx, recipe.ID, recipe); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recipe update: %w", err)
	}
	return nil
}

// DeleteRecipe removes one recipe; related rows cascade.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func insertRecipeRelations(ctx context.Context, tx *sql.Tx, recipeID int64, recipe storage.Recipe) error {
	for _, tag := range recipe.Tags {
		if _, err := tx.ExecContext(
			ctx,
			"INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)",
			recipeID, tag.ID,
		); err != nil {
			return fmt.Errorf("attach tag %d: %w", tag.ID, err)
		}
	}
	for _, entry := range recipe.Ingredients {
		if _, err := tx.ExecContext(
			ctx,
			"INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)",
			recipeID, entry.IngredientID, entry.Amount,
		); err != nil {
			return fmt.Errorf("attach ingredient %d: %w", entry.IngredientID, err)
		}
	}
	return nil
}

// hydrateRecipes attaches tag and ingredient sets to the given recipes.
func (s *Store) hydrateRecipes(ctx context.Context, recipes []*storage.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*storage.Recipe, len(recipes))
	placeholders := make([]string, 0, len(recipes))
	args := make([]any, 0, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
		placeholders = append(placeholders, "?")
		args = append(args, recipe.ID)
	}
	in := "(" + strings.Join(placeholders, ", ") + ")"

	tagRows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT rt.recipe_id, t.id, t.name, t.slug
		   FROM recipe_tags rt
		   JOIN tags t ON t.id = rt.tag_id
		  WHERE rt.recipe_id IN `+in+`
		  ORDER BY t.name`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}
	defer func() { _ = tagRows.Close() }()
	for tagRows.Next() {
		var recipeID int64
		var tag storage.Tag
		if err := tagRows.Scan(&recipeID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("scan recipe tag: %w", err)
		}
		if recipe, ok := byID[recipeID]; ok {
			recipe.Tags = append(recipe.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("iterate recipe tags: %w", err)
	}

	ingredientRows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		   FROM recipe_ingredients ri
		   JOIN ingredients i ON i.id = ri.ingredient_id
		  WHERE ri.recipe_id IN `+in+`
		  ORDER BY i.name`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	defer func() { _ = ingredientRows.Close() }()
	for ingredientRows.Next() {
		var recipeID int64
		var entry storage.RecipeIngredient
		if err := ingredientRows.Scan(&recipeID, &entry.IngredientID, &entry.Name, &entry.MeasurementUnit, &entry.Amount); err != nil {
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if recipe, ok := byID[recipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, entry)
		}
	}
	if err := ingredientRows.Err(); err != nil {
		return fmt.Errorf("iterate recipe ingredients: %w", err)
	}
	return nil
}

// buildRecipeFilter assembles the WHERE clause for recipe listings.
func buildRecipeFilter(filter storage.RecipeFilter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 8)

	if filter.AuthorID > 0 {
		clauses = append(clauses, "r.author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		placeholders := make([]string, len(filter.TagSlugs))
		for idx, slug := range filter.TagSlugs {
			placeholders[idx] = "?"
			args = append(args, slug)
		}
		clauses = append(clauses,
			"r.id IN (SELECT rt.recipe_id FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE t.slug IN ("+
				strings.Join(placeholders, ", ")+"))")
	}
	if filter.ViewerID > 0 {
		switch filter.Favorited {
		case storage.MarkOnly:
			clauses = append(clauses, "EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = ?)")
			args = append(args, filter.ViewerID)
		case storage.MarkExclude:
			clauses = append(clauses, "NOT EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = ?)")
			args = append(args, filter.ViewerID)
		}
		switch filter.InShoppingCart {
		case storage.MarkOnly:
			clauses = append(clauses, "EXISTS (SELECT 1 FROM shopping_cart c WHERE c.recipe_id = r.id AND c.user_id = ?)")
			args = append(args, filter.ViewerID)
		case storage.MarkExclude:
			clauses = append(clauses, "NOT EXISTS (SELECT 1 FROM shopping_cart c WHERE c.recipe_id = r.id AND c.user_id = ?)")
			args = append(args, filter.ViewerID)
		}
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func prefixedRecipeColumns(alias string) string {
	columns := []string{"id", "author_id", "name", "image_path", "text", "cooking_time"}
	prefixed := make([]string, 0, len(columns)+2)
	for _, column := range columns {
		prefixed = append(prefixed, alias+"."+column)
	}
	prefixed = append(prefixed, "COALESCE("+alias+".short_link_code, '')", alias+".created_at")
	return strings.Join(prefixed, ", ")
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
