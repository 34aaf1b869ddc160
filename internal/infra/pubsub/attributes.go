package pubsub

import (
	"strconv"

	"healthtrack/internal/domain/constants"
	"healthtrack/internal/domain/service"
)

// eventAttributes builds the message attributes subscribers filter on.
func eventAttributes(event *service.DailyRecordEvent) map[string]string {
	attributes := map[string]string{
		"event_type":  constants.EventTypeDailyRecordUpserted,
		"event_id":    event.EventID,
		"user_id":     strconv.FormatUint(event.UserID, 10),
		"recorded_at": event.RecordedAt,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
