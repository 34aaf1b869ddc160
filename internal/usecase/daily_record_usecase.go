package usecase

import (
	"context"
	"encoding/json"

	"healthtrack/internal/domain/entity"
)

// DailyRecordInput is the composite daily payload. Fields stay raw so the service can tell
// a missing field from a malformed one and report them in a fixed order.
type DailyRecordInput struct {
	RecordedAt json.RawMessage `json:"recorded_at"`
	Weight     json.RawMessage `json:"weight"`
	SleepTime  json.RawMessage `json:"sleep_time"`
}

// DailyRecordOutput holds the records written by one upsert.
// Created is true when at least one of them was newly inserted.
type DailyRecordOutput struct {
	WeightRecord *entity.Record
	SleepRecord  *entity.Record
	Created      bool
}

// DailyRecordUsecase defines the daily weight/sleep upsert.
type DailyRecordUsecase interface {
	UpsertDaily(ctx context.Context, principal *entity.Principal, input *DailyRecordInput) (*DailyRecordOutput, error)
}
