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

const userColumns = "id, email, username, first_name, last_name, password_hash, avatar_path, created_at"

func scanUser(row interface{ Scan(...any) error }) (storage.User, error) {
	var user storage.User
	var createdAt int64
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.AvatarPath,
		&createdAt,
	)
	if err != nil {
		return storage.User{}, err
	}
	user.CreatedAt = fromMillis(createdAt)
	return user, nil
}

// CreateUser inserts one account and returns its generated id.
func (s *Store) CreateUser(ctx context.Context, user storage.User) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	email := strings.TrimSpace(user.Email)
	username := strings.TrimSpace(user.Username)
	if email == "" {
		return 0, fmt.Errorf("email is required")
	}
	if username == "" {
		return 0, fmt.Errorf("username is required")
	}
	if user.PasswordHash == "" {
		return 0, fmt.Errorf("password hash is required")
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (email, username, first_name, last_name, password_hash, avatar_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		email,
		username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.AvatarPath,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrAlreadyExists
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}
	return id, nil
}

// GetUser fetches one account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches one account by its login email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return storage.User{}, fmt.Errorf("email is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns one page of accounts ordered by id.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) (storage.UserPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.UserPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.UserPage{}, err
	}
	if limit <= 0 {
		return storage.UserPage{}, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return storage.UserPage{}, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return storage.UserPage{}, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	page := storage.UserPage{Total: total, Users: make([]storage.User, 0, limit)}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return storage.UserPage{}, fmt.Errorf("scan user: %w", err)
		}
		page.Users = append(page.Users, user)
	}
	if err := rows.Err(); err != nil {
		return storage.UserPage{}, fmt.Errorf("iterate users: %w", err)
	}
	return page, nil
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateUserAvatar replaces the stored avatar path. An empty path clears it.
func (s *Store) UpdateUserAvatar(ctx context.Context, id int64, avatarPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "UPDATE users SET avatar_path = ? WHERE id = ?", avatarPath, id)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update avatar rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Subscribe records that userID follows authorID.
func (s *Store) Subscribe(ctx context.Context, userID, authorID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if userID == authorID {
		return fmt.Errorf("self-subscription is not allowed")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO subscriptions (user_id, author_id, created_at) VALUES (?, ?, ?)",
		userID, authorID, toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

// Unsubscribe removes the follow edge from userID to authorID.
func (s *Store) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		"DELETE FROM subscriptions WHERE user_id = ? AND author_id = ?",
		userID, authorID,
	)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unsubscribe rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// IsSubscribed reports whether userID follows authorID.
func (s *Store) IsSubscribed(ctx context.Context, userID, authorID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	var found int
	row := s.sqlDB.QueryRowContext(
		ctx,
		"SELECT 1 FROM subscriptions WHERE user_id = ? AND author_id = ?",
		userID, authorID,
	)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return true, nil
}

// ListSubscriptions returns one page of authors userID follows, each with a
// recipe count, ordered by subscription recency.
func (s *Store) ListSubscriptions(ctx context.Context, userID int64, limit, offset int) (storage.AuthorPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.AuthorPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.AuthorPage{}, err
	}
	if limit <= 0 {
		return storage.AuthorPage{}, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM subscriptions WHERE user_id = ?", userID)
	if err := row.Scan(&total); err != nil {
		return storage.AuthorPage{}, fmt.Errorf("count subscriptions: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.avatar_path, u.created_at,
		        (SELECT COUNT(*) FROM recipes r WHERE r.author_id = u.id) AS recipes_count
		   FROM subscriptions s
		   JOIN users u ON u.id = s.author_id
		  WHERE s.user_id = ?
		  ORDER BY s.created_at DESC, u.id
		  LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return storage.AuthorPage{}, fmt.Errorf("list subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	page := storage.AuthorPage{Total: total, Authors: make([]storage.Author, 0, limit)}
	for rows.Next() {
		var author storage.Author
		var createdAt int64
		err := rows.Scan(
			&author.ID,
			&author.Email,
			&author.Username,
			&author.FirstName,
			&author.LastName,
			&author.PasswordHash,
			&author.AvatarPath,
			&createdAt,
			&author.RecipesCount,
		)
		if err != nil {
			return storage.AuthorPage{}, fmt.Errorf("scan author: %w", err)
		}
		author.CreatedAt = fromMillis(createdAt)
		page.Authors = append(page.Authors, author)
	}
	if err := rows.Err(); err != nil {
		return storage.AuthorPage{}, fmt.Errorf("iterate authors: %w", err)
	}
	return page, nil
}

// CountRecipes returns the number of recipes published by authorID.
func (s *Store) CountRecipes(ctx context.Context, authorID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes WHERE author_id = ?", authorID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}
