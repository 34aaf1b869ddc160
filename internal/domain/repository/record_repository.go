package repository

import (
	"context"
	"errors"
	"time"

	"healthtrack/internal/domain/entity"
)

// ErrRecordNotFound is returned when a record does not exist for the requesting user.
var ErrRecordNotFound = errors.New("record not found")

// RecordFilter narrows a record listing. Zero dates are open bounds.
type RecordFilter struct {
	UserID uint64
	From   time.Time
	To     time.Time
}

// RecordRepository persists the records of a single kind.
// Every lookup is scoped to the owning user.
type RecordRepository interface {
	// Upsert writes value for (userID, recordedAt), inserting the row when it is missing
	// and updating it otherwise. created is true only when a new row was inserted.
	Upsert(ctx context.Context, userID uint64, recordedAt time.Time, value float64) (record *entity.Record, created bool, err error)

	// FindByID retrieves a record owned by userID.
	FindByID(ctx context.Context, userID, id uint64) (*entity.Record, error)

	// List returns the records matching filter ordered by date, then ID.
	List(ctx context.Context, filter RecordFilter) ([]*entity.Record, error)

	// Create inserts a new record and fills in the generated ID and timestamps.
	Create(ctx context.Context, record *entity.Record) error

	// Update overwrites the date and value of a record owned by record.UserID.
	Update(ctx context.Context, record *entity.Record) error

	// Delete removes a record owned by userID.
	Delete(ctx context.Context, userID, id uint64) error
}
