package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/handaeho/AssetAssistant/internal/models"
	"github.com/handaeho/AssetAssistant/internal/storage"
)

// UserByID находит учётную запись по внешнему идентификатору (логину).
func (s *Storage) UserByID(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `
		SELECT id, user_id, password_hash, role, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user models.User
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.UserID,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

// SaveUser создает учётную запись. Подсистема аутентификации записи не
// создаёт — метод нужен провижинингу и интеграционным тестам, поэтому
// в контракт storage.CredentialStore не входит.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users(id, user_id, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.UserID,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
