// storage задаёт контракт хранилища учётных записей (Credential Store).
//
// Подсистема аутентификации потребляет его только на чтение: создание и
// изменение профилей — зона ответственности пользовательского сервиса.
package storage

import (
	"context"
	"errors"

	"github.com/handaeho/AssetAssistant/internal/models"
)

var (
	// ErrNotFound — учётная запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (логин занят).
	ErrAlreadyExists = errors.New("already exists")
)

// CredentialStore выполняет чтение учётных записей.
type CredentialStore interface {
	// UserByID находит учётную запись по внешнему идентификатору (логину).
	UserByID(ctx context.Context, userID string) (*models.User, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	CredentialStore
	Close()
}
