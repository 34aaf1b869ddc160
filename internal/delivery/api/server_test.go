package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"healthtrack/config"
	apimiddleware "healthtrack/internal/delivery/api/middleware"
	"healthtrack/internal/delivery/api/router"
	"healthtrack/internal/delivery/api/router/handler"
	"healthtrack/internal/delivery/api/session"
	"healthtrack/internal/infra/auth"
	"healthtrack/internal/infra/persistence/sqlstore"
	mockSvc "healthtrack/internal/mocks/service"
	"healthtrack/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.BasePath = "/api"
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = ":memory:"
	cfg.JWT = config.JWTConfig{SigningKey: "test-signing-key"}
	cfg.Cookie = config.CookieConfig{SameSite: "lax"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlstore.Open(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, sqlstore.AutoMigrate(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	txManager := sqlstore.NewTransactionManager(db)
	repoFactory := sqlstore.NewRepositoryFactory(db)
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost, nil)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishDailyRecordEvent(mock.Anything, mock.Anything).Return(nil).Maybe()

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    txManager,
		RepoFactory:  repoFactory,
		Hasher:       hasher,
		TokenService: tokens,
		Logger:       logger,
	})
	sessions := session.NewManager(cfg, tokens)

	routerParams := router.RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
			AuthUC:   authUC,
			Sessions: sessions,
			Logger:   logger,
		}),
		DailyRecordHandler: handler.NewDailyRecordHandler(handler.DailyRecordHandlerParams{
			DailyRecordUC: impl.NewDailyRecordService(impl.DailyRecordServiceParams{
				TxManager:      txManager,
				EventPublisher: publisher,
				Logger:         logger,
			}),
			Logger: logger,
		}),
		RecordHandler: handler.NewRecordHandler(handler.RecordHandlerParams{
			RecordUC: impl.NewRecordService(impl.RecordServiceParams{
				TxManager:   txManager,
				RepoFactory: repoFactory,
				Logger:      logger,
			}),
			Logger: logger,
		}),
		ProfileHandler: handler.NewProfileHandler(handler.ProfileHandlerParams{
			ProfileUC: impl.NewProfileService(impl.ProfileServiceParams{
				TxManager:   txManager,
				RepoFactory: repoFactory,
				Logger:      logger,
			}),
			Logger: logger,
		}),
		UserHandler: handler.NewUserHandler(handler.UserHandlerParams{
			UserUC: impl.NewUserService(impl.UserServiceParams{
				TxManager:   txManager,
				RepoFactory: repoFactory,
				Hasher:      hasher,
				Logger:      logger,
			}),
			Logger: logger,
		}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(apimiddleware.AuthMiddlewareParams{
			AuthUC:   authUC,
			Sessions: sessions,
			Logger:   logger,
		}),
		Config: cfg,
	}

	return NewEcho(cfg, logger, routerParams)
}

// testClient keeps the cookies the server sets, like a browser would.
type testClient struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]string
	header  http.Header
}

func newTestClient(t *testing.T, e *echo.Echo) *testClient {
	return &testClient{t: t, e: e, cookies: map[string]string{}, header: http.Header{}}
}

func (c *testClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	return c.doWithType(method, path, echo.MIMEApplicationJSON, body)
}

func (c *testClient) doWithType(method, path, contentType, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)

			continue
		}
		c.cookies[cookie.Name] = cookie.Value
	}

	return rec
}

func (c *testClient) login(email, password string) {
	c.t.Helper()

	rec := c.do(http.MethodPost, "/api/register/", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/token/", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
}

func (c *testClient) userID() uint64 {
	c.t.Helper()

	rec := c.do(http.MethodGet, "/api/userinfo/", "")
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())

	var body handler.UserInfoResponse
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.UserID
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	errBody, ok := decodeMap(t, rec)["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())

	return errBody["code"].(string)
}

func TestServer_DailyRecordFlow(t *testing.T) {
	client := newTestClient(t, newTestServer(t))

	rec := client.do(http.MethodPost, "/api/register/", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "User registered successfully!", decodeMap(t, rec)["message"])

	rec = client.do(http.MethodPost, "/api/token/", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Logged in successfully.", decodeMap(t, rec)["message"])
	assert.NotEmpty(t, client.cookies[session.AccessTokenCookie])
	assert.NotEmpty(t, client.cookies[session.RefreshTokenCookie])

	rec = client.do(http.MethodPost, "/api/daily-records/", `{"recorded_at":"2024-01-15","weight":70.5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeMap(t, rec)
	weightRecord := body["weight_record"].(map[string]any)
	assert.InDelta(t, 70.5, weightRecord["weight"], 1e-9)
	assert.Equal(t, "2024-01-15", weightRecord["recorded_at"])
	assert.NotContains(t, body, "sleep_record")

	rec = client.do(http.MethodPost, "/api/daily-records/", `{"recorded_at":"2024-01-15","weight":71.0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.InDelta(t, 71.0, decodeMap(t, rec)["weight_record"].(map[string]any)["weight"], 1e-9)

	rec = client.do(http.MethodPost, "/api/daily-records/", `{"recorded_at":"2024-01-15"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "NO_MEASUREMENT_PROVIDED", errorCode(t, rec))

	rec = client.do(http.MethodPost, "/api/daily-records/", `{"recorded_at":"2024-01-15","sleep_time":"7.5"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body = decodeMap(t, rec)
	assert.InDelta(t, 7.5, body["sleep_record"].(map[string]any)["sleep_time"], 1e-9)
	assert.NotContains(t, body, "weight_record")

	rec = client.do(http.MethodGet, "/api/weight-records/", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var weights []handler.RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &weights))
	require.Len(t, weights, 1)
	require.NotNil(t, weights[0].Weight)
	assert.InDelta(t, 71.0, *weights[0].Weight, 1e-9)
}

func TestServer_DailyRecordValidation(t *testing.T) {
	client := newTestClient(t, newTestServer(t))
	client.login("a@x.com", "pw")

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "missing date", body: `{"weight":70}`, wantCode: "MISSING_DATE"},
		{name: "bad date", body: `{"recorded_at":"15/01/2024","weight":70}`, wantCode: "INVALID_DATE_FORMAT"},
		{name: "bad weight", body: `{"recorded_at":"2024-01-15","weight":"heavy"}`, wantCode: "INVALID_WEIGHT"},
		{name: "bad sleep", body: `{"recorded_at":"2024-01-15","sleep_time":true}`, wantCode: "INVALID_SLEEP_TIME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := client.do(http.MethodPost, "/api/daily-records", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}

	rec := client.do(http.MethodGet, "/api/weight-records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_RejectsFormEncodedBodies(t *testing.T) {
	client := newTestClient(t, newTestServer(t))
	client.login("a@x.com", "pw")

	rec := client.doWithType(http.MethodPost, "/api/daily-records", echo.MIMEApplicationForm, "recorded_at=2024-03-03&weight=60")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))

	rec = client.doWithType(http.MethodPost, "/api/weight-records", echo.MIMEApplicationForm, "recorded_at=2024-03-03&weight=60")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))

	rec = client.do(http.MethodGet, "/api/weight-records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_SessionEndpoints(t *testing.T) {
	client := newTestClient(t, newTestServer(t))

	rec := client.do(http.MethodPost, "/api/auth/status/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = client.do(http.MethodGet, "/api/userinfo/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ACCESS_TOKEN_NOT_FOUND", errorCode(t, rec))

	rec = client.do(http.MethodPost, "/api/token/refresh/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REFRESH_TOKEN_NOT_FOUND", errorCode(t, rec))

	client.login("Someone@Example.COM", "pw")

	rec = client.do(http.MethodPost, "/api/token/", `{"email":"Someone@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))

	rec = client.do(http.MethodPost, "/api/token/", `{"email":"Someone@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = client.do(http.MethodPost, "/api/auth/status/", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"detail":"Authenticated","user":"Someone@example.com"}`, rec.Body.String())

	assert.NotZero(t, client.userID())

	delete(client.cookies, session.AccessTokenCookie)
	rec = client.do(http.MethodPost, "/api/token/refresh/", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Token refreshed successfully.", decodeMap(t, rec)["message"])
	assert.NotEmpty(t, client.cookies[session.AccessTokenCookie])

	rec = client.do(http.MethodPost, "/api/logout/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, client.cookies)

	rec = client.do(http.MethodPost, "/api/auth/status/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_BearerFallback(t *testing.T) {
	e := newTestServer(t)
	client := newTestClient(t, e)
	client.login("a@x.com", "pw")

	bearer := newTestClient(t, e)
	bearer.header.Set(echo.HeaderAuthorization, "Bearer "+client.cookies[session.AccessTokenCookie])

	rec := bearer.do(http.MethodPost, "/api/auth/status", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServer_RecordOwnership(t *testing.T) {
	e := newTestServer(t)

	alice := newTestClient(t, e)
	alice.login("alice@x.com", "pw")
	aliceID := alice.userID()

	bob := newTestClient(t, e)
	bob.login("bob@x.com", "pw")

	rec := alice.do(http.MethodPost, "/api/calorie-records/", `{"recorded_at":"2024-01-15","calorie":500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created handler.RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, aliceID, created.User)

	path := fmt.Sprintf("/api/calorie-records/%d/", created.ID)

	rec = bob.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = bob.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = bob.do(http.MethodGet, fmt.Sprintf("/api/calorie-records/?user=%d", aliceID), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = bob.do(http.MethodGet, fmt.Sprintf("/api/users/%d/", aliceID), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = alice.do(http.MethodPatch, path, `{"calorie":650}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated handler.RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.NotNil(t, updated.Calorie)
	assert.InDelta(t, 650, *updated.Calorie, 1e-9)
	assert.Equal(t, "2024-01-15", updated.RecordedAt)

	rec = alice.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = alice.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ProfileAndUser(t *testing.T) {
	client := newTestClient(t, newTestServer(t))
	client.login("a@x.com", "pw")
	userID := client.userID()

	rec := client.do(http.MethodGet, "/api/user-profiles/", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profiles []handler.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, userID, profiles[0].User)
	assert.Nil(t, profiles[0].Height)

	rec = client.do(http.MethodPatch, fmt.Sprintf("/api/user-profiles/%d/", userID), `{"nickname":"al","height":"172.5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile handler.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "al", profile.Nickname)
	require.NotNil(t, profile.Height)
	assert.InDelta(t, 172.5, *profile.Height, 1e-9)

	rec = client.do(http.MethodGet, fmt.Sprintf("/api/users/%d", userID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "a@x.com", decodeMap(t, rec)["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = client.do(http.MethodDelete, fmt.Sprintf("/api/users/%d/", userID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = client.do(http.MethodPost, "/api/auth/status/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_HealthAndUnknownRoute(t *testing.T) {
	client := newTestClient(t, newTestServer(t))

	rec := client.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = client.do(http.MethodGet, "/api/nothing-here/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))

	rec = client.do(http.MethodGet, "/api/weight-records/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
