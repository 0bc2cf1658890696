package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/handaeho/AssetAssistant/internal/service"
	"github.com/handaeho/AssetAssistant/internal/transport/http/handlers"
	"github.com/handaeho/AssetAssistant/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Authenticate(svc),    // проверяем Bearer-токен, кладём личность в контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// Публичные: токен в них либо не нужен, либо передаётся в теле.
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/validate", h.Validate)

	// Защищённые: личность обязана быть в контексте.
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth())
		pr.Post("/auth/logout", h.Logout)
		pr.Get("/auth/sessions", h.Sessions)
	})
}
