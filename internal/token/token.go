// token реализует выпуск и проверку подписанных bearer-токенов (JWT, HMAC-SHA256).
//
// Менеджер — чистая функция от (claims, текущее время, ключ подписи): состояния,
// кроме ключа, нет, поэтому экземпляр безопасен для конкурентного использования.
// Временные сравнения — с точностью до секунды, компенсации рассинхронизации
// часов нет (leeway = 0).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind — назначение токена.
type Kind string

const (
	// KindAccess — короткоживущий токен доступа к API.
	KindAccess Kind = "access"
	// KindRefresh — долгоживущий токен для выпуска нового access-токена.
	KindRefresh Kind = "refresh"
)

var (
	// ErrMalformed — строка не является структурно корректным JWT.
	ErrMalformed = errors.New("malformed token")
	// ErrSignature — подпись не сходится с ключом (подделка или чужой ключ).
	ErrSignature = errors.New("invalid token signature")
	// ErrExpired — срок действия токена истёк; подпись при этом может быть валидна.
	ErrExpired = errors.New("token expired")
	// ErrUnsupportedAlg — токен подписан неподдерживаемым алгоритмом.
	ErrUnsupportedAlg = errors.New("unsupported signing algorithm")
)

// Минимальная длина секрета: HMAC-SHA256 требует ключ >= 256 бит.
const minSecretLen = 32

// Config — параметры менеджера токенов.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// Claims — результат успешной проверки токена.
type Claims struct {
	UserID    string
	DeviceID  string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims — представление claims на проводе: sub/iat/exp из
// RegisteredClaims плюс кастомные device_id и kind.
type tokenClaims struct {
	DeviceID string `json:"device_id"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// Manager выпускает и проверяет токены. Ключ подписи фиксируется при
// создании и далее только читается.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

// NewManager создаёт менеджер токенов. Отсутствующий или короткий секрет —
// ошибка конфигурации на старте, а не на вызове.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("token: secret must be at least %d bytes", minSecretLen)
	}

	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: TTLs must be positive")
	}

	return &Manager{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		issuer:     cfg.Issuer,
	}, nil
}

// MintAccess выпускает access-токен для пары (userID, deviceID).
// iat = now, exp = now + AccessTTL.
func (m *Manager) MintAccess(userID, deviceID string, now time.Time) (string, error) {
	return m.mint(userID, deviceID, KindAccess, now, m.accessTTL)
}

// MintRefresh выпускает refresh-токен той же формы, но с RefreshTTL.
func (m *Manager) MintRefresh(userID, deviceID string, now time.Time) (string, error) {
	return m.mint(userID, deviceID, KindRefresh, now, m.refreshTTL)
}

func (m *Manager) mint(userID, deviceID string, kind Kind, now time.Time, ttl time.Duration) (string, error) {
	const op = "token.mint"

	claims := tokenClaims{
		DeviceID: deviceID,
		Kind:     string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// keyFunc отдаёт ключ только для HS256; любой другой алгоритм отклоняется
// до проверки подписи.
func (m *Manager) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, ErrUnsupportedAlg
	}

	return m.secret, nil
}

// Verify проверяет подпись, срок действия и issuer токена.
//
// Ошибки различаются намеренно: на ErrExpired клиент идёт в refresh,
// ErrSignature — признак атаки и логируется громко. Проверка блэклиста —
// зона ответственности вызывающего (см. revocation).
func (m *Manager) Verify(tokenStr string) (Claims, error) {
	const op = "token.Verify"

	opts := []jwt.ParserOption{jwt.WithIssuedAt()}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, m.keyFunc, opts...)
	if err != nil {
		return Claims{}, fmt.Errorf("%s: %w", op, mapJWTError(err))
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	out := Claims{
		UserID:   claims.Subject,
		DeviceID: claims.DeviceID,
		Kind:     Kind(claims.Kind),
	}

	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

// RemainingTTL возвращает остаток жизни токена на момент now.
// Подпись проверяется, истечение — нет: метод нужен, чтобы посчитать TTL
// маркера отзыва, а отзыв уже истёкшего токена — безопасный no-op (вернётся 0).
func (m *Manager) RemainingTTL(tokenStr string, now time.Time) time.Duration {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	parsed, err := parser.ParseWithClaims(tokenStr, &tokenClaims{}, m.keyFunc)
	if err != nil {
		return 0
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.ExpiresAt == nil {
		return 0
	}

	remaining := claims.ExpiresAt.Time.Sub(now)
	if remaining < 0 {
		return 0
	}

	return remaining
}

// mapJWTError переводит ошибки библиотеки в доменные сентинелы пакета.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedAlg):
		return ErrUnsupportedAlg
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrUnsupportedAlg
	default:
		return ErrMalformed
	}
}
