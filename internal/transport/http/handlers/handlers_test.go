package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/handaeho/AssetAssistant/internal/identity"
	"github.com/handaeho/AssetAssistant/internal/models"
	"github.com/handaeho/AssetAssistant/internal/service"
	"github.com/handaeho/AssetAssistant/internal/token"
)

// stubService — управляемая реализация AuthService для тестов хендлеров.
type stubService struct {
	login     func(ctx context.Context, userID, password, deviceID string) (*service.LoginResult, error)
	refresh   func(ctx context.Context, refreshToken string) (*service.LoginResult, error)
	logout    func(ctx context.Context, userID, deviceID string) error
	logoutAll func(ctx context.Context, userID string) error
	validate  func(ctx context.Context, accessToken string) (token.Claims, error)
	sessions  func(ctx context.Context, userID string) ([]service.SessionInfo, error)
}

func (s *stubService) Login(ctx context.Context, userID, password, deviceID string) (*service.LoginResult, error) {
	return s.login(ctx, userID, password, deviceID)
}

func (s *stubService) Refresh(ctx context.Context, refreshToken string) (*service.LoginResult, error) {
	return s.refresh(ctx, refreshToken)
}

func (s *stubService) Logout(ctx context.Context, userID, deviceID string) error {
	return s.logout(ctx, userID, deviceID)
}

func (s *stubService) LogoutAll(ctx context.Context, userID string) error {
	return s.logoutAll(ctx, userID)
}

func (s *stubService) ValidateToken(ctx context.Context, accessToken string) (token.Claims, error) {
	return s.validate(ctx, accessToken)
}

func (s *stubService) Sessions(ctx context.Context, userID string) ([]service.SessionInfo, error) {
	return s.sessions(ctx, userID)
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) errEnvelope {
	t.Helper()
	var resp errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func loginResult(userID, deviceID string) *service.LoginResult {
	return &service.LoginResult{
		UserID:   userID,
		DeviceID: deviceID,
		TokenPair: models.TokenPair{
			AccessToken:     "access.jwt",
			RefreshToken:    "refresh.jwt",
			AccessExpiresAt: time.Now().UTC().Add(30 * time.Second).Truncate(time.Second),
		},
	}
}

func TestLogin_OK(t *testing.T) {
	var gotDevice string

	h := New(&stubService{
		login: func(_ context.Context, userID, password, deviceID string) (*service.LoginResult, error) {
			require.Equal(t, "alice", userID)
			require.Equal(t, "secret", password)
			gotDevice = deviceID
			return loginResult("alice", "phone1"), nil
		},
	})

	rr := httptest.NewRecorder()
	h.Login(rr, postJSON("/auth/login", `{"user_id":"alice","password":"secret","device_id":"phone1"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "phone1", gotDevice)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, "alice", out["user_id"])
	require.Equal(t, "phone1", out["device_id"])
	require.Equal(t, "access.jwt", out["access_token"])
	require.Equal(t, "refresh.jwt", out["refresh_token"])
	require.NotEmpty(t, out["expires_at"])
}

func TestLogin_BadJSON(t *testing.T) {
	h := New(&stubService{})

	for _, body := range []string{"", "{", `{"user_id":"a","unknown":1}`} {
		rr := httptest.NewRecorder()
		h.Login(rr, postJSON("/auth/login", body))

		require.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
		require.Equal(t, "invalid_argument", decodeErr(t, rr).Error.Code)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := New(&stubService{
		login: func(context.Context, string, string, string) (*service.LoginResult, error) {
			return nil, service.ErrInvalidCredentials
		},
	})

	rr := httptest.NewRecorder()
	h.Login(rr, postJSON("/auth/login", `{"user_id":"alice","password":"wrong"}`))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "invalid_credentials", decodeErr(t, rr).Error.Code)
}

func TestRefresh_OK(t *testing.T) {
	h := New(&stubService{
		refresh: func(_ context.Context, refreshToken string) (*service.LoginResult, error) {
			require.Equal(t, "refresh.jwt", refreshToken)
			return loginResult("alice", "phone1"), nil
		},
	})

	rr := httptest.NewRecorder()
	h.Refresh(rr, postJSON("/auth/refresh", `{"refresh_token":"refresh.jwt"}`))

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRefresh_EmptyToken(t *testing.T) {
	h := New(&stubService{})

	rr := httptest.NewRecorder()
	h.Refresh(rr, postJSON("/auth/refresh", `{"refresh_token":""}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefresh_Expired(t *testing.T) {
	h := New(&stubService{
		refresh: func(context.Context, string) (*service.LoginResult, error) {
			return nil, service.ErrTokenExpired
		},
	})

	rr := httptest.NewRecorder()
	h.Refresh(rr, postJSON("/auth/refresh", `{"refresh_token":"stale.jwt"}`))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "token_expired", decodeErr(t, rr).Error.Code)
}

func TestValidate_OK(t *testing.T) {
	exp := time.Now().UTC().Add(30 * time.Second).Truncate(time.Second)

	h := New(&stubService{
		validate: func(_ context.Context, accessToken string) (token.Claims, error) {
			require.Equal(t, "access.jwt", accessToken)
			return token.Claims{UserID: "alice", DeviceID: "phone1", Kind: token.KindAccess, ExpiresAt: exp}, nil
		},
	})

	rr := httptest.NewRecorder()
	h.Validate(rr, postJSON("/auth/validate", `{"access_token":"access.jwt"}`))

	require.Equal(t, http.StatusOK, rr.Code)

	var out validateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.True(t, out.Valid)
	require.Equal(t, "alice", out.UserID)
	require.Equal(t, "phone1", out.DeviceID)
	require.True(t, exp.Equal(out.ExpiresAt))
}

// Плохой токен — штатный ответ {"valid": false}, не транспортная ошибка.
func TestValidate_BadToken_ValidFalse(t *testing.T) {
	for _, svcErr := range []error{
		service.ErrInvalidToken,
		service.ErrTokenExpired,
		service.ErrTokenRevoked,
		service.ErrSessionNotFound,
	} {
		h := New(&stubService{
			validate: func(context.Context, string) (token.Claims, error) {
				return token.Claims{}, svcErr
			},
		})

		rr := httptest.NewRecorder()
		h.Validate(rr, postJSON("/auth/validate", `{"access_token":"bad.jwt"}`))

		require.Equal(t, http.StatusOK, rr.Code, "err %v", svcErr)

		var out validateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		require.False(t, out.Valid)
		require.Empty(t, out.UserID)
	}
}

// Недоступная инфраструктура не маскируется под {"valid": false}:
// подтвердить или опровергнуть валидность нельзя.
func TestValidate_Unavailable401(t *testing.T) {
	h := New(&stubService{
		validate: func(context.Context, string) (token.Claims, error) {
			return token.Claims{}, service.ErrAuthUnavailable
		},
	})

	rr := httptest.NewRecorder()
	h.Validate(rr, postJSON("/auth/validate", `{"access_token":"any.jwt"}`))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", decodeErr(t, rr).Error.Code)
}

func withIdentity(r *http.Request, userID, deviceID string) *http.Request {
	ctx := identity.Into(r.Context(), identity.Identity{UserID: userID, DeviceID: deviceID})
	return r.WithContext(ctx)
}

func TestLogout_NoIdentity401(t *testing.T) {
	h := New(&stubService{})

	rr := httptest.NewRecorder()
	h.Logout(rr, postJSON("/auth/logout", ""))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", decodeErr(t, rr).Error.Code)
}

func TestLogout_EmptyBody_CurrentDevice(t *testing.T) {
	var gotUser, gotDevice string

	h := New(&stubService{
		logout: func(_ context.Context, userID, deviceID string) error {
			gotUser, gotDevice = userID, deviceID
			return nil
		},
	})

	rr := httptest.NewRecorder()
	h.Logout(rr, withIdentity(postJSON("/auth/logout", ""), "alice", "phone1"))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "alice", gotUser)
	require.Equal(t, "phone1", gotDevice)
}

func TestLogout_ExplicitDevice(t *testing.T) {
	var gotDevice string

	h := New(&stubService{
		logout: func(_ context.Context, _, deviceID string) error {
			gotDevice = deviceID
			return nil
		},
	})

	rr := httptest.NewRecorder()
	h.Logout(rr, withIdentity(postJSON("/auth/logout", `{"device_id":"laptop"}`), "alice", "phone1"))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "laptop", gotDevice)
}

func TestLogout_AllDevices(t *testing.T) {
	var gotUser string

	h := New(&stubService{
		logoutAll: func(_ context.Context, userID string) error {
			gotUser = userID
			return nil
		},
	})

	rr := httptest.NewRecorder()
	h.Logout(rr, withIdentity(postJSON("/auth/logout", `{"all":true}`), "alice", "phone1"))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "alice", gotUser)
}

func TestSessions_OK(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	h := New(&stubService{
		sessions: func(_ context.Context, userID string) ([]service.SessionInfo, error) {
			require.Equal(t, "alice", userID)
			return []service.SessionInfo{
				{DeviceID: "phone1", CreatedAt: now},
				{DeviceID: "laptop", CreatedAt: now.Add(-time.Hour)},
			}, nil
		},
	})

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/auth/sessions", nil), "alice", "phone1")
	rr := httptest.NewRecorder()
	h.Sessions(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var out sessionsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out.Sessions, 2)
	require.Equal(t, "phone1", out.Sessions[0].DeviceID)

	// Значения токенов в ответ не попадают.
	require.NotContains(t, rr.Body.String(), "access_token")
}

func TestSessions_NoIdentity401(t *testing.T) {
	h := New(&stubService{})

	rr := httptest.NewRecorder()
	h.Sessions(rr, httptest.NewRequest(http.MethodGet, "/auth/sessions", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
