package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	deliverycontext "healthtrack/internal/delivery/context"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserField(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *uint64
		wantErr bool
	}{
		{name: "absent", raw: ``},
		{name: "null", raw: `null`},
		{name: "number", raw: `7`, want: ptr(uint64(7))},
		{name: "numeric string", raw: `"12"`, want: ptr(uint64(12))},
		{name: "negative", raw: `-1`, wantErr: true},
		{name: "fraction", raw: `1.5`, wantErr: true},
		{name: "word", raw: `"me"`, wantErr: true},
		{name: "boolean", raw: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseUserField(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathID(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	c.SetParamNames("id")
	c.SetParamValues("42")
	id, err := pathID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.SetParamValues("abc")
	_, err = pathID(c)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestPrincipal(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := principal(c)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))

	want := &entity.Principal{UserID: 3, Email: "a@x.com"}
	deliverycontext.SetPrincipal(c, want)
	got, err := principal(c)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBindJSON(t *testing.T) {
	newContext := func(contentType, body string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set(echo.HeaderContentType, contentType)
		}

		return echo.New().NewContext(req, httptest.NewRecorder())
	}

	t.Run("json body", func(t *testing.T) {
		body := map[string]json.RawMessage{}
		require.NoError(t, bindJSON(newContext(echo.MIMEApplicationJSONCharsetUTF8, `{"weight":70}`), &body))
		assert.JSONEq(t, `70`, string(body["weight"]))
	})

	t.Run("empty body", func(t *testing.T) {
		body := map[string]json.RawMessage{}
		require.NoError(t, bindJSON(newContext("", ""), &body))
		assert.Empty(t, body)
	})

	for _, contentType := range []string{echo.MIMEApplicationForm, echo.MIMETextPlain, ""} {
		t.Run("rejects "+contentType, func(t *testing.T) {
			body := map[string]json.RawMessage{}
			err := bindJSON(newContext(contentType, "recorded_at=2024-03-03&weight=60"), &body)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			assert.Empty(t, body)
		})
	}
}

func TestNewRecordResponse(t *testing.T) {
	assert.Nil(t, newRecordResponse(nil))

	recordedAt, err := entity.ParseDate("2024-01-15")
	require.NoError(t, err)

	resp := newRecordResponse(&entity.Record{
		ID:         1,
		UserID:     2,
		Kind:       entity.RecordKindSleep,
		RecordedAt: recordedAt,
		Value:      7.5,
		CreatedAt:  time.Unix(0, 0).UTC(),
		UpdatedAt:  time.Unix(0, 0).UTC(),
	})

	assert.Equal(t, "2024-01-15", resp.RecordedAt)
	assert.Nil(t, resp.Weight)
	assert.Nil(t, resp.Calorie)
	require.NotNil(t, resp.SleepTime)
	assert.InDelta(t, 7.5, *resp.SleepTime, 1e-9)
}

func ptr[T any](v T) *T {
	return &v
}
