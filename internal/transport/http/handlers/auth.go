package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/handaeho/AssetAssistant/internal/identity"
	"github.com/handaeho/AssetAssistant/internal/service"
	"github.com/handaeho/AssetAssistant/internal/transport/http/httperr"
)

type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
	DeviceID string `json:"device_id,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type validateRequest struct {
	AccessToken string `json:"access_token"`
}

type logoutRequest struct {
	DeviceID string `json:"device_id,omitempty"`
	All      bool   `json:"all,omitempty"`
}

// tokenResponse — ответ логина и refresh: пара токенов и их привязка.
type tokenResponse struct {
	UserID       string    `json:"user_id"`
	DeviceID     string    `json:"device_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type validateResponse struct {
	Valid     bool      `json:"valid"`
	UserID    string    `json:"user_id,omitempty"`
	DeviceID  string    `json:"device_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

type sessionItem struct {
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionsResponse struct {
	Sessions []sessionItem `json:"sessions"`
}

// Login — POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	res, err := h.svc.Login(r.Context(), in.UserID, in.Password, in.DeviceID)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:       res.UserID,
		DeviceID:     res.DeviceID,
		AccessToken:  res.TokenPair.AccessToken,
		RefreshToken: res.TokenPair.RefreshToken,
		ExpiresAt:    res.TokenPair.AccessExpiresAt,
	})
}

// Refresh — POST /auth/refresh.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		badRequest(w, r)
		return
	}

	res, err := h.svc.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:       res.UserID,
		DeviceID:     res.DeviceID,
		AccessToken:  res.TokenPair.AccessToken,
		RefreshToken: res.TokenPair.RefreshToken,
		ExpiresAt:    res.TokenPair.AccessExpiresAt,
	})
}

// Validate — POST /auth/validate. Полная проверка access-токена,
// включая актуальность в реестре сессий.
//
// Плохой токен — не транспортная ошибка, а штатный ответ {"valid": false}:
// эндпойнт опрашивают другие сервисы, для них это запрос-вопрос, а не
// попытка аутентификации. 401 остаётся за инфраструктурным сбоем, когда
// подтвердить валидность нельзя в принципе.
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var in validateRequest
	if err := decodeStrict(r, &in); err != nil || in.AccessToken == "" {
		badRequest(w, r)
		return
	}

	claims, err := h.svc.ValidateToken(r.Context(), in.AccessToken)
	if err != nil {
		if errors.Is(err, service.ErrAuthUnavailable) {
			httperr.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:     true,
		UserID:    claims.UserID,
		DeviceID:  claims.DeviceID,
		ExpiresAt: claims.ExpiresAt,
	})
}

// Logout — POST /auth/logout (защищённый).
//
// Тело опционально: без тела завершается сессия устройства из токена,
// device_id адресует другую сессию того же пользователя, all=true — все.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.From(r.Context())
	if !ok {
		httperr.WriteError(w, r, httperr.ErrUnauthenticated)
		return
	}

	var in logoutRequest
	if err := decodeOptional(r, &in); err != nil {
		badRequest(w, r)
		return
	}

	if in.All {
		if err := h.svc.LogoutAll(r.Context(), id.UserID); err != nil {
			httperr.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	deviceID := in.DeviceID
	if deviceID == "" {
		deviceID = id.DeviceID
	}

	if err := h.svc.Logout(r.Context(), id.UserID, deviceID); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Sessions — GET /auth/sessions (защищённый). Активные сессии пользователя,
// значения токенов в ответ не попадают.
func (h *Handlers) Sessions(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.From(r.Context())
	if !ok {
		httperr.WriteError(w, r, httperr.ErrUnauthenticated)
		return
	}

	list, err := h.svc.Sessions(r.Context(), id.UserID)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	out := sessionsResponse{Sessions: make([]sessionItem, 0, len(list))}
	for _, s := range list {
		out.Sessions = append(out.Sessions, sessionItem{DeviceID: s.DeviceID, CreatedAt: s.CreatedAt})
	}

	writeJSON(w, http.StatusOK, out)
}
