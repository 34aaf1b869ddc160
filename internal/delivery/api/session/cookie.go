// Package session binds session tokens to HTTP-only cookies.
package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"healthtrack/config"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Cookie names.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// AccessRefresher issues a new access token for a refresh token.
type AccessRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Manager reads and writes the session cookies.
type Manager struct {
	cookie     config.CookieConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager builds a Manager from the cookie settings and the token lifetimes.
func NewManager(cfg *config.Config, tokens service.TokenService) *Manager {
	return &Manager{
		cookie:     cfg.Cookie,
		accessTTL:  tokens.AccessTTL(),
		refreshTTL: tokens.RefreshTTL(),
	}
}

// SetSessionCookies writes both token cookies.
func (m *Manager) SetSessionCookies(c echo.Context, accessToken, refreshToken string) {
	m.SetAccessCookie(c, accessToken)
	c.SetCookie(m.newCookie(RefreshTokenCookie, refreshToken, m.refreshTTL))
}

// SetAccessCookie writes the access token cookie.
func (m *Manager) SetAccessCookie(c echo.Context, accessToken string) {
	c.SetCookie(m.newCookie(AccessTokenCookie, accessToken, m.accessTTL))
}

// ClearSessionCookies expires both token cookies.
func (m *Manager) ClearSessionCookies(c echo.Context) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := m.newCookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

// ExtractAccessToken reads the access token cookie.
func (m *Manager) ExtractAccessToken(c echo.Context) (string, error) {
	token := cookieValue(c, AccessTokenCookie)
	if token == "" {
		return "", errors.WithStack(domainerrors.ErrAccessTokenNotFound)
	}

	return token, nil
}

// ExtractBearerToken reads an "Authorization: Bearer" header.
func (m *Manager) ExtractBearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

// RefreshAccess exchanges the refresh cookie for a new access token and sets it as a cookie.
func (m *Manager) RefreshAccess(c echo.Context, refresher AccessRefresher) (string, error) {
	refreshToken := cookieValue(c, RefreshTokenCookie)
	if refreshToken == "" {
		return "", errors.WithStack(domainerrors.ErrRefreshTokenNotFound)
	}

	accessToken, err := refresher.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return "", errors.WithStack(err)
	}

	m.SetAccessCookie(c, accessToken)

	return accessToken, nil
}

func (m *Manager) newCookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   m.cookie.Domain,
		HttpOnly: true,
		Secure:   m.cookie.IsSecure(),
		SameSite: parseSameSite(m.cookie.SameSite),
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}

	return cookie
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
