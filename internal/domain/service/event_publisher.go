package service

import (
	"context"
	"time"
)

// DailyRecordEvent describes a committed daily record upsert.
type DailyRecordEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	EventID    string    `json:"event_id"`
	UserID     uint64    `json:"user_id"`
	RecordedAt string    `json:"recorded_at"`
	Weight     *float64  `json:"weight,omitempty"`
	SleepTime  *float64  `json:"sleep_time,omitempty"`
	Created    bool      `json:"created"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishDailyRecordEvent publishes a daily record event for downstream consumers
	PublishDailyRecordEvent(ctx context.Context, event *DailyRecordEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
