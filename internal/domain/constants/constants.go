// Package constants holds string values shared between configuration and infrastructure.
package constants

// Pub/Sub providers accepted in pubsub.provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// EventTypeDailyRecordUpserted is the event_type attribute of published daily record events.
const EventTypeDailyRecordUpserted = "daily_record.upserted"
