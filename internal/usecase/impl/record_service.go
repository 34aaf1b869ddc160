package impl

import (
	"context"
	"log/slog"

	deliverycontext "healthtrack/internal/delivery/context"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	"healthtrack/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// recordService implements the RecordUsecase interface for every record kind.
type recordService struct {
	txManager   repository.TransactionManager
	repoFactory repository.RepositoryFactory
	logger      *slog.Logger
}

// RecordServiceParams holds dependencies for RecordService, injected by Fx.
type RecordServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	RepoFactory repository.RepositoryFactory
	Logger      *slog.Logger
}

// NewRecordService is the constructor for recordService.
func NewRecordService(params RecordServiceParams) usecase.RecordUsecase {
	return &recordService{
		txManager:   params.TxManager,
		repoFactory: params.RepoFactory,
		logger:      params.Logger,
	}
}

func (srv *recordService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListRecords returns the principal's records of one kind.
func (srv *recordService) ListRecords(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, input *usecase.ListRecordsInput) ([]*entity.Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	filter := repository.RecordFilter{UserID: principal.UserID}
	if input != nil {
		if input.UserID != nil && *input.UserID != principal.UserID {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "cannot list records of another user")
		}
		filter.From = input.From
		filter.To = input.To
	}

	records, err := srv.repoFactory.RecordRepo(kind).List(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s records", kind)
	}

	return records, nil
}

// CreateRecord stores a new record owned by the principal.
func (srv *recordService) CreateRecord(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, input *usecase.RecordInput) (*entity.Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	record := &entity.Record{UserID: principal.UserID, Kind: kind}
	if err := applyRecordInput(record, principal, input, false); err != nil {
		return nil, err
	}

	if err := srv.repoFactory.RecordRepo(kind).Create(ctx, record); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s record", kind)
	}

	srv.log(ctx).Debug("Record created", slog.String("kind", string(kind)), slog.Uint64("recordID", record.ID))

	return record, nil
}

// GetRecord returns one of the principal's records. Records of other users are reported as missing.
func (srv *recordService) GetRecord(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, id uint64) (*entity.Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	record, err := srv.repoFactory.RecordRepo(kind).FindByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, mapRecordError(err)
	}

	return record, nil
}

// UpdateRecord replaces (partial=false) or patches (partial=true) one of the principal's records.
func (srv *recordService) UpdateRecord(
	ctx context.Context,
	principal *entity.Principal,
	kind entity.RecordKind,
	id uint64,
	input *usecase.RecordInput,
	partial bool,
) (*entity.Record, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	var updated *entity.Record
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		recordRepo := repoFactory.RecordRepo(kind)

		record, err := recordRepo.FindByID(ctx, principal.UserID, id)
		if err != nil {
			return mapRecordError(err)
		}

		if err := applyRecordInput(record, principal, input, partial); err != nil {
			return err
		}

		if err := recordRepo.Update(ctx, record); err != nil {
			return mapRecordError(err)
		}
		updated = record

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update %s record", kind)
	}

	return updated, nil
}

// DeleteRecord removes one of the principal's records.
func (srv *recordService) DeleteRecord(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, id uint64) error {
	if err := checkKind(kind); err != nil {
		return err
	}

	if err := srv.repoFactory.RecordRepo(kind).Delete(ctx, principal.UserID, id); err != nil {
		return mapRecordError(err)
	}

	srv.log(ctx).Debug("Record deleted", slog.String("kind", string(kind)), slog.Uint64("recordID", id))

	return nil
}

// applyRecordInput validates input and copies it onto record.
// Full writes need both fields; partial writes change only what is present.
func applyRecordInput(record *entity.Record, principal *entity.Principal, input *usecase.RecordInput, partial bool) error {
	if input == nil {
		input = &usecase.RecordInput{}
	}

	if input.UserID != nil && *input.UserID != principal.UserID {
		return errors.Wrap(domainerrors.ErrForbidden, "records can only be written for the authenticated user")
	}

	var missing []string
	switch {
	case !usecase.IsAbsent(input.RecordedAt):
		date, err := usecase.ParseDate(input.RecordedAt)
		if err != nil {
			return errors.WithStack(domainerrors.ErrInvalidDateFormat.WithDetails("recorded_at"))
		}
		record.RecordedAt = date
	case !partial:
		missing = append(missing, "recorded_at")
	}

	valueField := record.Kind.ValueField()
	switch {
	case !usecase.IsAbsent(input.Value):
		value, err := usecase.ParseNumber(input.Value)
		if err != nil {
			return errors.WithStack(domainerrors.ErrInvalidRecordValue.WithDetails(valueField + " must be a number"))
		}
		record.Value = value
	case !partial:
		missing = append(missing, valueField)
	}

	if len(missing) > 0 {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(joinRequired(missing)))
	}

	return nil
}

func mapRecordError(err error) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return errors.Wrap(domainerrors.ErrRecordNotFound, err.Error())
	}

	return errors.WithStack(err)
}

func checkKind(kind entity.RecordKind) error {
	if !kind.IsValid() {
		return errors.Wrapf(domainerrors.ErrNotFound, "unknown record kind %q", kind)
	}

	return nil
}
