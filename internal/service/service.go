// service содержит бизнес-логику подсистемы аутентификации:
// логин, обновление и отзыв токенов, управление сессиями по устройствам.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; всё изменяемое состояние живёт
//     во внешних хранилищах (реестр сессий и блэклист в Redis), поэтому
//     экземпляр безопасен для конкурентного использования из разных горутин.
//   - Ошибки возвращаются типизированными сентинелами и далее маппятся
//     транспортом на HTTP-статусы (см. комментарии к переменным ниже).
//   - Инфраструктурные сбои (Redis недоступен) наружу отдаются обобщённым
//     ErrAuthUnavailable: клиент видит обычный отказ в аутентификации,
//     конкретная причина остаётся в логах.
package service

import (
	"errors"

	"github.com/handaeho/AssetAssistant/internal/config"
	"github.com/handaeho/AssetAssistant/internal/revocation"
	"github.com/handaeho/AssetAssistant/internal/sessions"
	"github.com/handaeho/AssetAssistant/internal/storage"
	"github.com/handaeho/AssetAssistant/internal/token"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Случаи намеренно неразличимы (enumeration resistance). Транспорт: 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен некорректен по формату/подписи/алгоритму
	// или не зарегистрирован в реестре сессий. Транспорт: 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Отдельный сентинел,
	// чтобы клиент шёл в refresh, а не на повторный логин. Транспорт: 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout) и недействителен независимо
	// от срока. Транспорт: 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrSessionNotFound — операция адресует пару (user, device) без активной
	// сессии. Транспорт: 401.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAuthUnavailable — инфраструктурный сбой (реестр/блэклист недоступны).
	// Политика fail-closed: подтвердить валидность нельзя -> отказ.
	// Транспорт: 401 с обобщённым сообщением, подробности — в логах уровня error.
	ErrAuthUnavailable = errors.New("authentication temporarily unavailable")
)

// Service описывает бизнес-логику подсистемы аутентификации.
type Service struct {
	storage    storage.CredentialStore
	sessions   sessions.Registry
	revocation revocation.Store
	tokens     *token.Manager
	cfg        config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(
	credentials storage.CredentialStore,
	registry sessions.Registry,
	blacklist revocation.Store,
	tokens *token.Manager,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		storage:    credentials,
		sessions:   registry,
		revocation: blacklist,
		tokens:     tokens,
		cfg:        cfg,
	}
}
