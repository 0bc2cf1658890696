// handlers реализует REST-эндпойнты подсистемы аутентификации.
//
// Хендлеры тонкие: разбор запроса, вызов сервиса, перевод результата в JSON.
// Вся бизнес-логика и маппинг ошибок живут ниже (service, httperr).
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/handaeho/AssetAssistant/internal/service"
	"github.com/handaeho/AssetAssistant/internal/token"
	"github.com/handaeho/AssetAssistant/internal/transport/http/httperr"
)

// AuthService — контракт сервиса аутентификации, который потребляет HTTP-слой.
type AuthService interface {
	Login(ctx context.Context, userID, password, deviceID string) (*service.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*service.LoginResult, error)
	Logout(ctx context.Context, userID, deviceID string) error
	LogoutAll(ctx context.Context, userID string) error
	ValidateToken(ctx context.Context, accessToken string) (token.Claims, error)
	Sessions(ctx context.Context, userID string) ([]service.SessionInfo, error)
}

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	svc AuthService
}

func New(svc AuthService) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// decodeOptional — как decodeStrict, но пустое тело не считается ошибкой:
// value остаётся нулевым значением.
func decodeOptional(r *http.Request, value any) error {
	err := decodeStrict(r, value)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// badRequest — локальная ошибка парсинга -> 400/invalid_argument.
func badRequest(w http.ResponseWriter, r *http.Request) {
	httperr.WriteError(w, r, httperr.ErrInvalidArgument)
}
