package model

import "time"

const (
	EventCreate = "create"
	EventUpdate = "update"
	EventDelete = "delete"
)

// UpdateEvent tells the dashboard which entity changed so it can refresh
// the affected views.
type UpdateEvent struct {
	EventType  string    `json:"event_type"`
	Entity     string    `json:"entity"`
	UserID     string    `json:"user_id"`
	Date       *Date     `json:"date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUpdateEvent(eventType, entity, userID string, date *Date) UpdateEvent {
	return UpdateEvent{
		EventType:  eventType,
		Entity:     entity,
		UserID:     userID,
		Date:       date,
		OccurredAt: time.Now().UTC(),
	}
}
