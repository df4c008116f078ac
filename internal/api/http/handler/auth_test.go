package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/streamtube/streamtube-server/internal/api/http/context"
	"github.com/streamtube/streamtube-server/internal/model"
	"github.com/streamtube/streamtube-server/internal/service"
	"github.com/streamtube/streamtube-server/internal/testutil"
)

// stubAuthService implements AuthService with overridable function fields.
type stubAuthService struct {
	register       func(ctx context.Context, in service.RegisterInput) (model.PublicUser, error)
	login          func(ctx context.Context, login, password string) (service.LoginResult, error)
	refresh        func(ctx context.Context, refreshToken string) (service.TokenPair, error)
	logout         func(ctx context.Context, userID uuid.UUID) error
	changePassword func(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error
	currentUser    func(ctx context.Context, userID uuid.UUID) (model.PublicUser, error)
}

func (s *stubAuthService) Register(ctx context.Context, in service.RegisterInput) (model.PublicUser, error) {
	return s.register(ctx, in)
}
func (s *stubAuthService) Login(ctx context.Context, login, password string) (service.LoginResult, error) {
	return s.login(ctx, login, password)
}
func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error) {
	return s.refresh(ctx, refreshToken)
}
func (s *stubAuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.logout(ctx, userID)
}
func (s *stubAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	return s.changePassword(ctx, userID, oldPassword, newPassword, confirmPassword)
}
func (s *stubAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (model.PublicUser, error) {
	return s.currentUser(ctx, userID)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuth_Login_SetsCookies(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, login, password string) (service.LoginResult, error) {
			assert.Equal(t, "someuser", login)
			assert.Equal(t, "password123", password)
			return service.LoginResult{
				User:      model.PublicUser{Username: "someuser"},
				TokenPair: service.TokenPair{AccessToken: "at", RefreshToken: "rt"},
			}, nil
		},
	}
	h := NewAuth(svc, httpctx.NewManager(), testutil.MakeNoopLogger())

	body := `{"userName":"someuser","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)

	cookies := rec.Result().Cookies()
	access := cookieByName(cookies, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, "at", access.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)

	refresh := cookieByName(cookies, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, "rt", refresh.Value)
	assert.True(t, refresh.HttpOnly)
}

func TestAuth_Login_EmailFallback(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, login, password string) (service.LoginResult, error) {
			assert.Equal(t, "user@example.com", login)
			return service.LoginResult{}, nil
		},
	}
	h := NewAuth(svc, httpctx.NewManager(), testutil.MakeNoopLogger())

	body := `{"email":"user@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Login_DomainError(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, login, password string) (service.LoginResult, error) {
			return service.LoginResult{}, model.NewNotFoundError("user does not exist")
		},
	}
	h := NewAuth(svc, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"userName":"ghost","password":"x"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "user does not exist", env.Message)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuth_Login_InvalidBody(t *testing.T) {
	h := NewAuth(&stubAuthService{}, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Login(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_Refresh_FromCookie(t *testing.T) {
	svc := &stubAuthService{
		refresh: func(ctx context.Context, refreshToken string) (service.TokenPair, error) {
			assert.Equal(t, "cookie-refresh", refreshToken)
			return service.TokenPair{AccessToken: "new-at", RefreshToken: "new-rt"}, nil
		},
	}
	h := NewAuth(svc, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "cookie-refresh"})
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	refresh := cookieByName(rec.Result().Cookies(), "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, "new-rt", refresh.Value)
}

func TestAuth_Refresh_FromBody(t *testing.T) {
	svc := &stubAuthService{
		refresh: func(ctx context.Context, refreshToken string) (service.TokenPair, error) {
			assert.Equal(t, "body-refresh", refreshToken)
			return service.TokenPair{AccessToken: "new-at", RefreshToken: "new-rt"}, nil
		},
	}
	h := NewAuth(svc, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", strings.NewReader(`{"refreshToken":"body-refresh"}`))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Refresh_Unauthorized(t *testing.T) {
	svc := &stubAuthService{
		refresh: func(ctx context.Context, refreshToken string) (service.TokenPair, error) {
			return service.TokenPair{}, model.NewUnauthorizedError()
		},
	}
	h := NewAuth(svc, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", bytes.NewReader(nil))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "unauthorized request", env.Message)
}

func TestAuth_Logout_ClearsCookies(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{
		logout: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, userID, id)
			return nil
		},
	}
	ctxMgr := httpctx.NewManager()
	h := NewAuth(svc, ctxMgr, testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req = req.WithContext(ctxMgr.SetUserIDToContext(req.Context(), userID))
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	for _, name := range []string{"accessToken", "refreshToken"} {
		c := cookieByName(rec.Result().Cookies(), name)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestAuth_Logout_NoUserInContext(t *testing.T) {
	h := NewAuth(&stubAuthService{}, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ChangePassword(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{
		changePassword: func(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
			assert.Equal(t, userID, id)
			assert.Equal(t, "oldpassword", oldPassword)
			assert.Equal(t, "newpassword1", newPassword)
			assert.Equal(t, "newpassword1", confirmPassword)
			return nil
		},
	}
	ctxMgr := httpctx.NewManager()
	h := NewAuth(svc, ctxMgr, testutil.MakeNoopLogger())

	body := `{"oldPassword":"oldpassword","newPassword":"newpassword1","confirmPassword":"newpassword1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/change-password", strings.NewReader(body))
	req = req.WithContext(ctxMgr.SetUserIDToContext(req.Context(), userID))
	rec := httptest.NewRecorder()

	h.ChangePassword(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Me(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{
		currentUser: func(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
			return model.PublicUser{ID: id, Username: "someuser"}, nil
		},
	}
	ctxMgr := httpctx.NewManager()
	h := NewAuth(svc, ctxMgr, testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user", nil)
	req = req.WithContext(ctxMgr.SetUserIDToContext(req.Context(), userID))
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Data)
}
