package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"healthtrack/internal/delivery/api/response"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RecordHandlerParams holds dependencies for RecordHandler, injected by Fx.
type RecordHandlerParams struct {
	fx.In

	RecordUC usecase.RecordUsecase
	Logger   *slog.Logger
}

// RecordHandler serves the weight, sleep and calorie resources. Each method is bound to one kind.
type RecordHandler struct {
	recordUC usecase.RecordUsecase
	logger   *slog.Logger
}

// NewRecordHandler is the constructor for RecordHandler.
func NewRecordHandler(params RecordHandlerParams) *RecordHandler {
	return &RecordHandler{
		recordUC: params.RecordUC,
		logger:   params.Logger,
	}
}

// List returns the principal's records of kind, filtered by ?user=, ?from= and ?to=.
func (h *RecordHandler) List(kind entity.RecordKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := principal(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		input, err := listInput(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		records, err := h.recordUC.ListRecords(c.Request().Context(), p, kind, input)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, newRecordResponses(records))
	}
}

// Create stores a new record for the principal.
func (h *RecordHandler) Create(kind entity.RecordKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := principal(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		input, err := bindRecordInput(c, kind)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		record, err := h.recordUC.CreateRecord(c.Request().Context(), p, kind, input)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusCreated, newRecordResponse(record))
	}
}

// Get returns one of the principal's records.
func (h *RecordHandler) Get(kind entity.RecordKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := principal(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		id, err := pathID(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		record, err := h.recordUC.GetRecord(c.Request().Context(), p, kind, id)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, newRecordResponse(record))
	}
}

// Update replaces (PUT) or patches (PATCH) one of the principal's records.
func (h *RecordHandler) Update(kind entity.RecordKind, partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := principal(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		id, err := pathID(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		input, err := bindRecordInput(c, kind)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		record, err := h.recordUC.UpdateRecord(c.Request().Context(), p, kind, id, input, partial)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, newRecordResponse(record))
	}
}

// Delete removes one of the principal's records.
func (h *RecordHandler) Delete(kind entity.RecordKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := principal(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		id, err := pathID(c)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		if err := h.recordUC.DeleteRecord(c.Request().Context(), p, kind, id); err != nil {
			return response.HandleAppError(c, err)
		}

		return response.NoContent(c)
	}
}

// bindRecordInput reads {user?, recorded_at, <value field>} where the value field depends on kind.
func bindRecordInput(c echo.Context, kind entity.RecordKind) (*usecase.RecordInput, error) {
	body := map[string]json.RawMessage{}
	if err := bindJSON(c, &body); err != nil {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("request body must be a JSON object"))
	}

	userID, err := parseUserField(body["user"])
	if err != nil {
		return nil, err
	}

	return &usecase.RecordInput{
		UserID:     userID,
		RecordedAt: body["recorded_at"],
		Value:      body[kind.ValueField()],
	}, nil
}

func listInput(c echo.Context) (*usecase.ListRecordsInput, error) {
	input := &usecase.ListRecordsInput{}

	if raw := c.QueryParam("user"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("user: must be a user id"))
		}
		input.UserID = &userID
	}

	var err error
	if input.From, err = queryDate(c, "from"); err != nil {
		return nil, err
	}
	if input.To, err = queryDate(c, "to"); err != nil {
		return nil, err
	}

	return input, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter. Absent means the zero time.
func queryDate(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}

	date, err := entity.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.WithStack(domainerrors.ErrInvalidDateFormat.WithDetails(name))
	}

	return date, nil
}
