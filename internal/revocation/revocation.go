// revocation — блэклист отозванных токенов поверх Redis.
//
// Запись означает: токен недействителен до своего естественного истечения,
// даже если подпись и exp в порядке. Записи никогда не удаляются явно —
// только истекают по TTL, равному остатку жизни токена на момент отзыва.
//
// Отсутствие записи значит «не известен как отозванный», а не «валиден»:
// подпись и срок действия проверяются отдельно (пакет token).
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrUnavailable — бэкенд блэклиста недоступен. Вызывающий обязан
	// трактовать это fail-closed: «не можем подтвердить, что не отозван» -> отказ.
	ErrUnavailable = errors.New("revocation store unavailable")
)

// Store — контракт блэклиста токенов.
type Store interface {
	// Revoke помечает токен отозванным на ttl. ttl <= 0 — безопасный no-op
	// (токен уже истёк, защищать нечего). Повторный отзыв идемпотентен.
	Revoke(ctx context.Context, tokenStr string, ttl time.Duration) error
	// IsRevoked отвечает, помечен ли токен отозванным.
	IsRevoked(ctx context.Context, tokenStr string) (bool, error)
}

type redisStore struct {
	rdb       *redis.Client
	prefix    string
	opTimeout time.Duration
}

// NewRedisStore создаёт блэклист поверх готового клиента Redis.
// Если prefix пустой — используется "blacklist:token:".
func NewRedisStore(rdb *redis.Client, prefix string, opTimeout time.Duration) Store {
	if prefix == "" {
		prefix = "blacklist:token:"
	}

	return &redisStore{rdb: rdb, prefix: prefix, opTimeout: opTimeout}
}

// key строит ключ по отпечатку токена: сырой токен в Redis не попадает.
func (s *redisStore) key(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return s.prefix + base64.RawURLEncoding.EncodeToString(sum[:])
}

// withDeadline гарантирует ограниченный таймаут обращения к Redis:
// если у входящего контекста дедлайна нет — навешиваем свой.
func (s *redisStore) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.opTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *redisStore) Revoke(ctx context.Context, tokenStr string, ttl time.Duration) error {
	const op = "revocation.redis.Revoke"

	if ttl <= 0 {
		return nil
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	// SET с EX перезаписывает и маркер, и TTL — повторный отзыв идемпотентен.
	if err := s.rdb.Set(ctx, s.key(tokenStr), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}

	return nil
}

func (s *redisStore) IsRevoked(ctx context.Context, tokenStr string) (bool, error) {
	const op = "revocation.redis.IsRevoked"

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	n, err := s.rdb.Exists(ctx, s.key(tokenStr)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}

	return n > 0, nil
}
