package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// startRedis поднимает miniredis и возвращает store поверх него.
func startRedis(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, "", 2*time.Second), mr
}

func TestRevoke_IsRevoked_OK(t *testing.T) {
	ctx := context.Background()
	st, _ := startRedis(t)

	const tok = "header.payload.signature"

	revoked, err := st.IsRevoked(ctx, tok)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, st.Revoke(ctx, tok, time.Hour))

	revoked, err = st.IsRevoked(ctx, tok)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRevoke_NonPositiveTTL_NoOp(t *testing.T) {
	ctx := context.Background()
	st, mr := startRedis(t)

	require.NoError(t, st.Revoke(ctx, "expired-token", 0))
	require.NoError(t, st.Revoke(ctx, "expired-token", -time.Minute))

	// В Redis не должно появиться ни одного ключа.
	require.Empty(t, mr.Keys())

	revoked, err := st.IsRevoked(ctx, "expired-token")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRevoke_Idempotent_RefreshesTTL(t *testing.T) {
	ctx := context.Background()
	st, _ := startRedis(t)

	const tok = "some-token"

	require.NoError(t, st.Revoke(ctx, tok, time.Minute))
	require.NoError(t, st.Revoke(ctx, tok, time.Hour))

	revoked, err := st.IsRevoked(ctx, tok)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRevoke_MarkerExpires(t *testing.T) {
	ctx := context.Background()
	st, mr := startRedis(t)

	const tok = "short-lived"

	require.NoError(t, st.Revoke(ctx, tok, time.Minute))

	// Маркер живёт не дольше остатка жизни токена.
	mr.FastForward(2 * time.Minute)

	revoked, err := st.IsRevoked(ctx, tok)
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRevoke_RawTokenNeverStored(t *testing.T) {
	ctx := context.Background()
	st, mr := startRedis(t)

	const tok = "eyJhbGciOiJIUzI1NiJ9.secret-payload.sig"

	require.NoError(t, st.Revoke(ctx, tok, time.Hour))

	for _, key := range mr.Keys() {
		require.NotContains(t, key, "secret-payload")
	}
}

func TestStore_Unavailable(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	st := NewRedisStore(rdb, "", time.Second)

	mr.Close()

	err := st.Revoke(ctx, "tok", time.Hour)
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = st.IsRevoked(ctx, "tok")
	require.ErrorIs(t, err, ErrUnavailable)
}
