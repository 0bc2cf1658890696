// httperr стандартизирует ответы об ошибках HTTP-слоя.
// На вход — доменная ошибка сервиса, на выход:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Принципиально: все отказы в аутентификации, включая инфраструктурные
// (Redis недоступен), отдаются как 401 с коротким кодом. 5xx на пути
// аутентификации подсказывал бы атакующему, что сломалось; настоящая причина
// остаётся в логах.
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/handaeho/AssetAssistant/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrInvalidArgument — локальная ошибка HTTP-слоя: тело запроса не разобралось.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnauthenticated — запрос к защищённому эндпойнту без валидной личности.
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError — единый формат ошибки для клиента.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal, чтобы не послать
//     "200 OK" с телом ошибки и не замаскировать баг;
//   - сентинелы service.* — 401 с различимыми кодами (клиент по token_expired
//     идёт в refresh, по invalid_token — на повторный логин);
//   - service.ErrAuthUnavailable — 401/unauthenticated: наружу причина сбоя
//     не отдаётся;
//   - ошибки контекста — 499/504;
//   - прочее — 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "token expired"
	case errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, "token_revoked", "token revoked"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "invalid token"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusUnauthorized, "session_not_found", "session not found"
	case errors.Is(err, service.ErrAuthUnavailable):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
