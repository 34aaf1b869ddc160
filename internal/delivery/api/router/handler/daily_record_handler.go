package handler

import (
	"log/slog"
	"net/http"

	"healthtrack/internal/delivery/api/response"
	"healthtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DailyRecordHandlerParams holds dependencies for DailyRecordHandler, injected by Fx.
type DailyRecordHandlerParams struct {
	fx.In

	DailyRecordUC usecase.DailyRecordUsecase
	Logger        *slog.Logger
}

// DailyRecordHandler serves the combined weight and sleep upsert.
type DailyRecordHandler struct {
	dailyRecordUC usecase.DailyRecordUsecase
	logger        *slog.Logger
}

// NewDailyRecordHandler is the constructor for DailyRecordHandler.
func NewDailyRecordHandler(params DailyRecordHandlerParams) *DailyRecordHandler {
	return &DailyRecordHandler{
		dailyRecordUC: params.DailyRecordUC,
		logger:        params.Logger,
	}
}

// Upsert writes the day's weight and/or sleep. 201 when any row was inserted, 200 otherwise.
func (h *DailyRecordHandler) Upsert(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var input usecase.DailyRecordInput
	if err := bindJSON(c, &input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid daily record input")
	}

	output, err := h.dailyRecordUC.UpsertDaily(c.Request().Context(), p, &input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	status := http.StatusOK
	if output.Created {
		status = http.StatusCreated
	}

	return response.Success(c, status, DailyRecordResponse{
		WeightRecord: newRecordResponse(output.WeightRecord),
		SleepRecord:  newRecordResponse(output.SleepRecord),
	})
}
