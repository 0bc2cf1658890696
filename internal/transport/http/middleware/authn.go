package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/handaeho/AssetAssistant/internal/identity"
	"github.com/handaeho/AssetAssistant/internal/pkg/redact"
	"github.com/handaeho/AssetAssistant/internal/token"
	"github.com/handaeho/AssetAssistant/internal/transport/http/httperr"

	logctx "github.com/handaeho/AssetAssistant/internal/pkg/log"
)

// Authenticator проверяет access-токен (подпись, срок, блэклист) и отдаёт
// его claims. Реализуется сервисом аутентификации.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (token.Claims, error)
}

// Authenticate — единый аутентификатор входящих запросов.
//
// Извлекает Bearer-токен из Authorization, проверяет его и кладёт личность
// в контекст (identity.Into). Отсутствующий или невалидный токен НЕ ошибка
// на этом уровне: запрос продолжается анонимным, а отказ выдаёт RequireAuth
// на защищённых маршрутах. Так публичные и защищённые эндпойнты живут в
// одной цепочке мидлваров.
func Authenticate(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := a.Authenticate(r.Context(), tokenStr)
			if err != nil {
				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelDebug, "authn_rejected",
					slog.String("token", redact.Token(tokenStr)),
					slog.String("err", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := identity.Into(r.Context(), identity.Identity{
				UserID:   claims.UserID,
				DeviceID: claims.DeviceID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth пропускает дальше только аутентифицированные запросы.
// Анонимный запрос получает 401 без уточнения причины.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := identity.From(r.Context()); !ok {
				httperr.WriteError(w, r, httperr.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken достаёт токен из "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) || len(auth) <= len(prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}
