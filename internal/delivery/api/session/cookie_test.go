package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthtrack/config"
	domainerrors "healthtrack/internal/domain/errors"
	mockSvc "healthtrack/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refresherFunc func(ctx context.Context, refreshToken string) (string, error)

func (f refresherFunc) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return f(ctx, refreshToken)
}

func newTestManager(t *testing.T, cookie config.CookieConfig) *Manager {
	tokens := mockSvc.NewMockTokenService(t)
	tokens.EXPECT().AccessTTL().Return(time.Hour)
	tokens.EXPECT().RefreshTTL().Return(24 * time.Hour)

	return NewManager(&config.Config{Cookie: cookie}, tokens)
}

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec), rec
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	result := map[string]*http.Cookie{}
	for _, cookie := range rec.Result().Cookies() {
		result[cookie.Name] = cookie
	}

	return result
}

func TestManager_SetSessionCookies(t *testing.T) {
	manager := newTestManager(t, config.CookieConfig{SameSite: "strict", Domain: "example.com"})
	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/token/", nil))

	manager.SetSessionCookies(c, "access-value", "refresh-value")

	cookies := cookiesByName(rec)
	require.Contains(t, cookies, AccessTokenCookie)
	require.Contains(t, cookies, RefreshTokenCookie)

	access := cookies[AccessTokenCookie]
	assert.Equal(t, "access-value", access.Value)
	assert.Equal(t, 3600, access.MaxAge)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, "example.com", access.Domain)

	refresh := cookies[RefreshTokenCookie]
	assert.Equal(t, "refresh-value", refresh.Value)
	assert.Equal(t, 86400, refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
}

func TestManager_InsecureCookies(t *testing.T) {
	secure := false
	manager := newTestManager(t, config.CookieConfig{Secure: &secure})
	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/token/", nil))

	manager.SetAccessCookie(c, "a")

	cookie := cookiesByName(rec)[AccessTokenCookie]
	require.NotNil(t, cookie)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestManager_ClearSessionCookies(t *testing.T) {
	manager := newTestManager(t, config.CookieConfig{})
	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/logout/", nil))

	manager.ClearSessionCookies(c)

	cookies := cookiesByName(rec)
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		require.Contains(t, cookies, name)
		assert.Empty(t, cookies[name].Value)
		assert.Equal(t, -1, cookies[name].MaxAge)
	}
}

func TestManager_ExtractAccessToken(t *testing.T) {
	manager := newTestManager(t, config.CookieConfig{})

	t.Run("present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/userinfo/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "tok"})
		c, _ := newContext(req)

		token, err := manager.ExtractAccessToken(c)

		require.NoError(t, err)
		assert.Equal(t, "tok", token)
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := newContext(httptest.NewRequest(http.MethodGet, "/userinfo/", nil))

		_, err := manager.ExtractAccessToken(c)

		assert.ErrorIs(t, err, domainerrors.ErrAccessTokenNotFound)
	})
}

func TestManager_ExtractBearerToken(t *testing.T) {
	manager := newTestManager(t, config.CookieConfig{})

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer ", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tt.header)
		}
		c, _ := newContext(req)

		token, ok := manager.ExtractBearerToken(c)

		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, token, tt.header)
	}
}

func TestManager_RefreshAccess(t *testing.T) {
	manager := newTestManager(t, config.CookieConfig{})

	t.Run("missing cookie", func(t *testing.T) {
		c, _ := newContext(httptest.NewRequest(http.MethodPost, "/token/refresh/", nil))

		_, err := manager.RefreshAccess(c, refresherFunc(func(context.Context, string) (string, error) {
			t.Fatal("refresher must not be called")

			return "", nil
		}))

		assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenNotFound)
	})

	t.Run("sets new access cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/token/refresh/", nil)
		req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "refresh"})
		c, rec := newContext(req)

		token, err := manager.RefreshAccess(c, refresherFunc(func(_ context.Context, refreshToken string) (string, error) {
			assert.Equal(t, "refresh", refreshToken)

			return "new-access", nil
		}))

		require.NoError(t, err)
		assert.Equal(t, "new-access", token)
		cookie := cookiesByName(rec)[AccessTokenCookie]
		require.NotNil(t, cookie)
		assert.Equal(t, "new-access", cookie.Value)
		assert.NotContains(t, cookiesByName(rec), RefreshTokenCookie)
	})

	t.Run("verify error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/token/refresh/", nil)
		req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "expired"})
		c, rec := newContext(req)

		_, err := manager.RefreshAccess(c, refresherFunc(func(context.Context, string) (string, error) {
			return "", errors.WithStack(domainerrors.ErrTokenExpired)
		}))

		assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
		assert.Empty(t, rec.Result().Cookies())
	})
}
