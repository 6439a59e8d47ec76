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

// PutToken records one issued API token.
func (s *Store) PutToken(ctx context.Context, token storage.AuthToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id := strings.TrimSpace(token.ID)
	if id == "" {
		return fmt.Errorf("token id is required")
	}
	if token.UserID <= 0 {
		return fmt.Errorf("user id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO auth_tokens (id, user_id, expires_at) VALUES (?, ?, ?)",
		id, token.UserID, toMillis(token.ExpiresAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put token: %w", err)
	}
	return nil
}

// GetToken fetches one issued token by id.
func (s *Store) GetToken(ctx context.Context, id string) (storage.AuthToken, error) {
	if err := ctx.Err(); err != nil {
		return storage.AuthToken{}, err
	}
	if err := s.ready(); err != nil {
		return storage.AuthToken{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.AuthToken{}, fmt.Errorf("token id is required")
	}
	var token storage.AuthToken
	var expiresAt int64
	row := s.sqlDB.QueryRowContext(ctx, "SELECT id, user_id, expires_at FROM auth_tokens WHERE id = ?", id)
	if err := row.Scan(&token.ID, &token.UserID, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AuthToken{}, storage.ErrNotFound
		}
		return storage.AuthToken{}, fmt.Errorf("get token: %w", err)
	}
	token.ExpiresAt = fromMillis(expiresAt)
	return token, nil
}

// DeleteToken revokes one issued token.
func (s *Store) DeleteToken(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("token id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM auth_tokens WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete token rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteExpiredTokens removes tokens that expired before the cutoff and
// returns the number of rows purged.
func (s *Store) DeleteExpiredTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM auth_tokens WHERE expires_at < ?", toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired token rows: %w", err)
	}
	return affected, nil
}
