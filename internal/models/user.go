package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись пользователя (Credential Record).
// Подсистема аутентификации читает её только для проверки личности:
// профиль и финансовые данные живут в других сервисах.
type User struct {
	// ID — внутренний первичный ключ.
	ID uuid.UUID
	// UserID — внешний идентификатор (логин), subject в токенах.
	UserID string
	// PasswordHash — bcrypt-хэш пароля.
	PasswordHash string
	// Role — роль для последующей авторизации.
	Role string

	CreatedAt time.Time
	UpdatedAt time.Time
}
