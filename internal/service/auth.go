package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/handaeho/AssetAssistant/internal/models"
	"github.com/handaeho/AssetAssistant/internal/pkg/log"
	"github.com/handaeho/AssetAssistant/internal/pkg/redact"
	"github.com/handaeho/AssetAssistant/internal/revocation"
	"github.com/handaeho/AssetAssistant/internal/sessions"
	"github.com/handaeho/AssetAssistant/internal/storage"
	"github.com/handaeho/AssetAssistant/internal/token"
)

// LoginResult — результат логина/обновления: subject, device и пара токенов.
type LoginResult struct {
	UserID    string
	DeviceID  string
	TokenPair models.TokenPair
}

// SessionInfo — сведения об активной сессии для выдачи наружу.
// Значения токенов наружу не отдаются никогда.
type SessionInfo struct {
	DeviceID  string
	CreatedAt time.Time
}

// Login аутентифицирует пользователя по паре логин/пароль и создаёт сессию
// для устройства deviceID (пустой deviceID — сервер назначает свой).
//
// «Пользователь не найден» и «пароль не подошёл» намеренно возвращают один и
// тот же ErrInvalidCredentials: по ошибке нельзя перечислять логины.
func (s *Service) Login(ctx context.Context, userID, password, deviceID string) (*LoginResult, error) {
	const op = "service.auth.Login"

	lg := log.From(ctx)

	if userID == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		lg.Error("credential_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	// bcrypt сравнивает хэши за константное время.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := time.Now().UTC()

	pair, err := s.mintPair(ctx, userID, deviceID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sess := models.Session{
		UserID:       userID,
		DeviceID:     deviceID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		CreatedAt:    now,
	}

	if err := s.sessions.Upsert(ctx, sess); err != nil {
		lg.Error("session_upsert_failed",
			slog.String("op", op),
			slog.String("user_id", redact.UserID(userID)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	lg.Info("login_ok",
		slog.String("user_id", redact.UserID(userID)),
		slog.String("device_id", deviceID),
	)

	return &LoginResult{UserID: userID, DeviceID: deviceID, TokenPair: pair}, nil
}

// Refresh выпускает новый access-токен по валидному refresh-токену.
// Refresh-токен при этом НЕ ротируется: он остаётся прежним до logout.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	const op = "service.auth.Refresh"

	lg := log.From(ctx)

	claims, err := s.verifyKind(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.ensureNotRevoked(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Токен обязан быть ТЕКУЩИМ refresh-токеном своей сессии: после logout
	// или повторного логина с того же устройства он вытеснен из реестра.
	sess, err := s.sessions.ByKey(ctx, claims.UserID, claims.DeviceID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("session_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	if sess.RefreshToken != refreshToken {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	now := time.Now().UTC()

	access, err := s.tokens.MintAccess(claims.UserID, claims.DeviceID, now)
	if err != nil {
		lg.Error("access_mint_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated := models.Session{
		UserID:       claims.UserID,
		DeviceID:     claims.DeviceID,
		AccessToken:  access,
		RefreshToken: sess.RefreshToken,
		CreatedAt:    sess.CreatedAt,
	}

	if err := s.sessions.Upsert(ctx, updated); err != nil {
		lg.Error("session_upsert_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	lg.Info("refresh_ok",
		slog.String("user_id", redact.UserID(claims.UserID)),
		slog.String("device_id", claims.DeviceID),
	)

	return &LoginResult{
		UserID:   claims.UserID,
		DeviceID: claims.DeviceID,
		TokenPair: models.TokenPair{
			AccessToken:     access,
			RefreshToken:    sess.RefreshToken,
			AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
		},
	}, nil
}

// Logout завершает сессию одного устройства: оба токена уходят в блэклист
// (каждый — со своим остатком жизни), запись реестра удаляется.
// Повторный вызов — безопасный no-op: активной сессии уже нет.
func (s *Service) Logout(ctx context.Context, userID, deviceID string) error {
	const op = "service.auth.Logout"

	lg := log.From(ctx)

	sess, err := s.sessions.ByKey(ctx, userID, deviceID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil
		}

		lg.Error("session_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	if err := s.revokeSession(ctx, sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.DeleteByKey(ctx, userID, deviceID); err != nil {
		lg.Error("session_delete_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	lg.Info("logout_ok",
		slog.String("user_id", redact.UserID(userID)),
		slog.String("device_id", deviceID),
	)

	return nil
}

// LogoutAll завершает сессии пользователя на всех устройствах.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	const op = "service.auth.LogoutAll"

	lg := log.From(ctx)

	all, err := s.sessions.AllByUser(ctx, userID)
	if err != nil {
		lg.Error("session_enumerate_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	for i := range all {
		if err := s.revokeSession(ctx, &all[i]); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.sessions.DeleteAllByUser(ctx, userID); err != nil {
		lg.Error("session_delete_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	lg.Info("logout_all_ok",
		slog.String("user_id", redact.UserID(userID)),
		slog.Int("sessions", len(all)),
	)

	return nil
}

// Authenticate — проверка access-токена на горячем пути (каждый запрос):
// подпись, срок действия и блэклист. Реестр сессий здесь НЕ опрашивается —
// это цена маленького окна «разлогинен, но ещё не в блэклисте» в обмен на
// один round-trip вместо двух (см. ValidateToken для полной проверки).
func (s *Service) Authenticate(ctx context.Context, accessToken string) (token.Claims, error) {
	const op = "service.auth.Authenticate"

	claims, err := s.verifyKind(accessToken, token.KindAccess)
	if err != nil {
		return token.Claims{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.ensureNotRevoked(ctx, accessToken); err != nil {
		return token.Claims{}, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// ValidateToken — полная проверка access-токена: подпись, срок, блэклист и
// актуальность в реестре сессий (токен обязан быть текущим для своей пары
// user/device). Используется эндпойнтом /auth/validate.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (token.Claims, error) {
	const op = "service.auth.ValidateToken"

	lg := log.From(ctx)

	claims, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return token.Claims{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.sessions.ByAccessToken(ctx, accessToken); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return token.Claims{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}

		lg.Error("session_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return token.Claims{}, fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	return claims, nil
}

// Sessions возвращает активные сессии пользователя (без значений токенов).
func (s *Service) Sessions(ctx context.Context, userID string) ([]SessionInfo, error) {
	const op = "service.auth.Sessions"

	all, err := s.sessions.AllByUser(ctx, userID)
	if err != nil {
		log.From(ctx).Error("session_enumerate_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrAuthUnavailable)
	}

	out := make([]SessionInfo, 0, len(all))
	for _, sess := range all {
		out = append(out, SessionInfo{DeviceID: sess.DeviceID, CreatedAt: sess.CreatedAt})
	}

	return out, nil
}

// mintPair выпускает пару access+refresh токенов.
func (s *Service) mintPair(ctx context.Context, userID, deviceID string, now time.Time) (models.TokenPair, error) {
	const op = "service.auth.mintPair"

	lg := log.From(ctx)

	access, err := s.tokens.MintAccess(userID, deviceID, now)
	if err != nil {
		lg.Error("access_mint_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := s.tokens.MintRefresh(userID, deviceID, now)
	if err != nil {
		lg.Error("refresh_mint_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// verifyKind проверяет подпись/срок токена и его назначение,
// переводя ошибки пакета token в доменные сентинелы.
func (s *Service) verifyKind(tokenStr string, kind token.Kind) (token.Claims, error) {
	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return token.Claims{}, ErrTokenExpired
		}

		return token.Claims{}, ErrInvalidToken
	}

	if claims.Kind != kind {
		return token.Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// ensureNotRevoked консультируется с блэклистом. Недоступный блэклист — отказ
// (fail-closed): «не можем подтвердить, что токен не отозван» = не пускаем.
func (s *Service) ensureNotRevoked(ctx context.Context, tokenStr string) error {
	revoked, err := s.revocation.IsRevoked(ctx, tokenStr)
	if err != nil {
		log.From(ctx).Error("revocation_check_failed",
			slog.String("token", redact.Token(tokenStr)),
			slog.String("err", err.Error()),
		)
		return ErrAuthUnavailable
	}

	if revoked {
		return ErrTokenRevoked
	}

	return nil
}

// revokeSession отправляет оба токена сессии в блэклист. TTL маркера — остаток
// жизни соответствующего токена; для уже истёкшего токена отзыв — no-op.
func (s *Service) revokeSession(ctx context.Context, sess *models.Session) error {
	now := time.Now().UTC()

	for _, tok := range []string{sess.AccessToken, sess.RefreshToken} {
		ttl := s.tokens.RemainingTTL(tok, now)
		if err := s.revocation.Revoke(ctx, tok, ttl); err != nil {
			if errors.Is(err, revocation.ErrUnavailable) {
				log.From(ctx).Error("revoke_failed",
					slog.String("token", redact.Token(tok)),
					slog.String("err", err.Error()),
				)
				return ErrAuthUnavailable
			}

			return err
		}
	}

	return nil
}
