package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/handaeho/AssetAssistant/internal/models"
)

// Config — параметры Redis-реестра.
type Config struct {
	// Prefix — префикс всех ключей реестра (по умолчанию "session:").
	Prefix string
	// SessionTTL — время жизни записи; совпадает с TTL refresh-токена.
	SessionTTL time.Duration
	// AccessIndexTTL — время жизни индекса access-токен -> ключ сессии;
	// совпадает с TTL access-токена. Корректность от него не зависит:
	// ByAccessToken дополнительно сверяет текущий токен записи.
	AccessIndexTTL time.Duration
	// OpTimeout — верхняя граница одного обращения к Redis.
	OpTimeout time.Duration
}

type redisRegistry struct {
	rdb *redis.Client
	cfg Config
}

// NewRedisRegistry создаёт реестр сессий поверх готового клиента Redis.
//
// Раскладка ключей:
//   - hash   <prefix>rec:<user>:<device> — запись сессии, TTL = SessionTTL;
//   - string <prefix>acc:<sha256(access)> -> "<user>:<device>", TTL = AccessIndexTTL;
//   - set    <prefix>dev:<user> — device id активных сессий, TTL = SessionTTL.
func NewRedisRegistry(rdb *redis.Client, cfg Config) Registry {
	if cfg.Prefix == "" {
		cfg.Prefix = "session:"
	}

	return &redisRegistry{rdb: rdb, cfg: cfg}
}

var _ Registry = (*redisRegistry)(nil)

func (r *redisRegistry) recKey(userID, deviceID string) string {
	return r.cfg.Prefix + "rec:" + models.SessionKey(userID, deviceID)
}

func (r *redisRegistry) accKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return r.cfg.Prefix + "acc:" + base64.RawURLEncoding.EncodeToString(sum[:])
}

func (r *redisRegistry) devKey(userID string) string {
	return r.cfg.Prefix + "dev:" + userID
}

func (r *redisRegistry) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || r.cfg.OpTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, r.cfg.OpTimeout)
}

// wrap переводит любую ошибку Redis в ErrUnavailable, сохраняя причину.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

// Upsert — один MULTI/EXEC: запись, индекс по access-токену и member в
// множестве устройств обновляются атомарно, без предварительного чтения.
// Индекс вытесненного access-токена не удаляется — он либо истечёт сам,
// либо будет отвергнут сверкой текущего токена в ByAccessToken.
func (r *redisRegistry) Upsert(ctx context.Context, s models.Session) error {
	const op = "sessions.redis.Upsert"

	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	rec := r.recKey(s.UserID, s.DeviceID)
	dev := r.devKey(s.UserID)

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, rec, map[string]string{
		"uid": s.UserID,
		"did": s.DeviceID,
		"at":  s.AccessToken,
		"rt":  s.RefreshToken,
		"cat": strconv.FormatInt(s.CreatedAt.Unix(), 10),
	})
	pipe.Expire(ctx, rec, r.cfg.SessionTTL)
	pipe.Set(ctx, r.accKey(s.AccessToken), models.SessionKey(s.UserID, s.DeviceID), r.cfg.AccessIndexTTL)
	pipe.SAdd(ctx, dev, s.DeviceID)
	pipe.Expire(ctx, dev, r.cfg.SessionTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return wrap(op, err)
	}

	return nil
}

func (r *redisRegistry) ByKey(ctx context.Context, userID, deviceID string) (*models.Session, error) {
	const op = "sessions.redis.ByKey"

	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	m, err := r.rdb.HGetAll(ctx, r.recKey(userID, deviceID)).Result()
	if err != nil {
		return nil, wrap(op, err)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return sessionFromHash(m), nil
}

func (r *redisRegistry) ByAccessToken(ctx context.Context, accessToken string) (*models.Session, error) {
	const op = "sessions.redis.ByAccessToken"

	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	key, err := r.rdb.Get(ctx, r.accKey(accessToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, wrap(op, err)
	}

	m, err := r.rdb.HGetAll(ctx, r.cfg.Prefix+"rec:"+key).Result()
	if err != nil {
		return nil, wrap(op, err)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	s := sessionFromHash(m)

	// Сверка текущего токена: индекс мог остаться от вытесненного access-токена.
	if s.AccessToken != accessToken {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return s, nil
}

func (r *redisRegistry) AllByUser(ctx context.Context, userID string) ([]models.Session, error) {
	const op = "sessions.redis.AllByUser"

	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	devices, err := r.rdb.SMembers(ctx, r.devKey(userID)).Result()
	if err != nil {
		return nil, wrap(op, err)
	}

	out := make([]models.Session, 0, len(devices))
	for _, d := range devices {
		m, err := r.rdb.HGetAll(ctx, r.recKey(userID, d)).Result()
		if err != nil {
			return nil, wrap(op, err)
		}

		// Запись могла истечь раньше member'а — вычищаем попутно.
		if len(m) == 0 {
			_ = r.rdb.SRem(ctx, r.devKey(userID), d).Err()
			continue
		}

		out = append(out, *sessionFromHash(m))
	}

	return out, nil
}

// DeleteByKey удаляет запись, её access-индекс и member устройства.
// Отсутствие записи — no-op (logout идемпотентен).
func (r *redisRegistry) DeleteByKey(ctx context.Context, userID, deviceID string) error {
	const op = "sessions.redis.DeleteByKey"

	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	// Сначала читаем access-токен записи, чтобы удалить и индекс.
	at, err := r.rdb.HGet(ctx, r.recKey(userID, deviceID), "at").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return wrap(op, err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, r.recKey(userID, deviceID))
	pipe.SRem(ctx, r.devKey(userID), deviceID)
	if at != "" {
		pipe.Del(ctx, r.accKey(at))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return wrap(op, err)
	}

	return nil
}

func (r *redisRegistry) DeleteAllByUser(ctx context.Context, userID string) error {
	const op = "sessions.redis.DeleteAllByUser"

	all, err := r.AllByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	pipe := r.rdb.TxPipeline()
	for _, s := range all {
		pipe.Del(ctx, r.recKey(userID, s.DeviceID))
		pipe.Del(ctx, r.accKey(s.AccessToken))
	}
	pipe.Del(ctx, r.devKey(userID))

	if _, err := pipe.Exec(ctx); err != nil {
		return wrap(op, err)
	}

	return nil
}

func sessionFromHash(m map[string]string) *models.Session {
	cat, _ := strconv.ParseInt(m["cat"], 10, 64)

	return &models.Session{
		UserID:       m["uid"],
		DeviceID:     m["did"],
		AccessToken:  m["at"],
		RefreshToken: m["rt"],
		CreatedAt:    time.Unix(cat, 0).UTC(),
	}
}
