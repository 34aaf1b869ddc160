package usecase

import (
	"context"
	"encoding/json"
	"time"

	"healthtrack/internal/domain/entity"
)

// RecordInput is the body of a record create or update.
// RecordedAt and Value stay raw so they are parsed with the same rules as daily records.
type RecordInput struct {
	UserID     *uint64
	RecordedAt json.RawMessage
	Value      json.RawMessage
}

// ListRecordsInput narrows a record listing. UserID, when set, must be the principal.
type ListRecordsInput struct {
	UserID *uint64
	From   time.Time
	To     time.Time
}

// RecordUsecase defines the CRUD operations shared by the weight, sleep and calorie resources.
type RecordUsecase interface {
	ListRecords(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, input *ListRecordsInput) ([]*entity.Record, error)
	CreateRecord(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, input *RecordInput) (*entity.Record, error)
	GetRecord(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, id uint64) (*entity.Record, error)
	UpdateRecord(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, id uint64, input *RecordInput, partial bool) (*entity.Record, error)
	DeleteRecord(ctx context.Context, principal *entity.Principal, kind entity.RecordKind, id uint64) error
}
