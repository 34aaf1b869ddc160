package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	deliverycontext "healthtrack/internal/delivery/context"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	"healthtrack/internal/domain/service"
	"healthtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// eventPublishTimeout bounds how long a committed upsert waits on the event publisher.
const eventPublishTimeout = 2 * time.Second

// dailyRecordService implements the DailyRecordUsecase interface.
type dailyRecordService struct {
	txManager      repository.TransactionManager
	eventPublisher service.EventPublisher
	logger         *slog.Logger
	now            func() time.Time
	publishTimeout time.Duration
}

// DailyRecordServiceParams holds dependencies for DailyRecordService, injected by Fx.
type DailyRecordServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewDailyRecordService is the constructor for dailyRecordService.
func NewDailyRecordService(params DailyRecordServiceParams) usecase.DailyRecordUsecase {
	return &dailyRecordService{
		txManager:      params.TxManager,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
		now:            time.Now,
		publishTimeout: eventPublishTimeout,
	}
}

func (srv *dailyRecordService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// dailyMeasurements is a validated daily payload.
type dailyMeasurements struct {
	recordedAt time.Time
	weight     *float64
	sleepTime  *float64
}

// UpsertDaily validates the payload, then writes weight and sleep for the principal's day.
// Nothing is written unless the whole payload is valid.
func (srv *dailyRecordService) UpsertDaily(ctx context.Context, principal *entity.Principal, input *usecase.DailyRecordInput) (*usecase.DailyRecordOutput, error) {
	if principal == nil || principal.UserID == 0 {
		return nil, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	measurements, err := validateDailyRecord(input)
	if err != nil {
		srv.log(ctx).Debug("Daily record rejected", slog.Uint64("userID", principal.UserID), slog.Any("error", err))

		return nil, err
	}

	output := &usecase.DailyRecordOutput{}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if measurements.weight != nil {
			record, created, err := repoFactory.RecordRepo(entity.RecordKindWeight).
				Upsert(ctx, principal.UserID, measurements.recordedAt, *measurements.weight)
			if err != nil {
				return errors.Wrap(err, "failed to upsert weight record")
			}
			output.WeightRecord = record
			output.Created = output.Created || created
		}

		if measurements.sleepTime != nil {
			record, created, err := repoFactory.RecordRepo(entity.RecordKindSleep).
				Upsert(ctx, principal.UserID, measurements.recordedAt, *measurements.sleepTime)
			if err != nil {
				return errors.Wrap(err, "failed to upsert sleep record")
			}
			output.SleepRecord = record
			output.Created = output.Created || created
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute daily record transaction", slog.Uint64("userID", principal.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute daily record transaction")
	}

	srv.publish(ctx, principal.UserID, measurements, output.Created)

	return output, nil
}

// publish emits the upsert event. The records are already committed, so failures are only logged.
func (srv *dailyRecordService) publish(ctx context.Context, userID uint64, measurements *dailyMeasurements, created bool) {
	event := &service.DailyRecordEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventID:    uuid.New().String(),
		UserID:     userID,
		RecordedAt: measurements.recordedAt.Format(entity.DateLayout),
		Weight:     measurements.weight,
		SleepTime:  measurements.sleepTime,
		Created:    created,
		OccurredAt: srv.now().UTC(),
	}

	publishCtx, cancel := context.WithTimeout(ctx, srv.publishTimeout)
	defer cancel()

	if err := srv.eventPublisher.PublishDailyRecordEvent(publishCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish daily record event",
			slog.String("event_id", event.EventID),
			slog.Any("error", err),
		)
	}
}

// validateDailyRecord applies the checks in order and stops at the first failure:
// date present, date format, a measurement present, weight numeric, sleep numeric.
func validateDailyRecord(input *usecase.DailyRecordInput) (*dailyMeasurements, error) {
	if input == nil || usecase.IsAbsent(input.RecordedAt) || usecase.IsEmptyString(input.RecordedAt) {
		return nil, errors.WithStack(domainerrors.ErrMissingDate)
	}

	recordedAt, err := usecase.ParseDate(input.RecordedAt)
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidDateFormat.WithDetails(string(input.RecordedAt)))
	}

	if usecase.IsAbsent(input.Weight) && usecase.IsAbsent(input.SleepTime) {
		return nil, errors.WithStack(domainerrors.ErrNoMeasurementProvided)
	}

	result := &dailyMeasurements{recordedAt: recordedAt}

	if result.weight, err = parseOptionalNumber(input.Weight); err != nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidWeight)
	}

	if result.sleepTime, err = parseOptionalNumber(input.SleepTime); err != nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidSleepTime)
	}

	return result, nil
}

func parseOptionalNumber(raw json.RawMessage) (*float64, error) {
	if usecase.IsAbsent(raw) {
		return nil, nil
	}

	value, err := usecase.ParseNumber(raw)
	if err != nil {
		return nil, err
	}

	return &value, nil
}
