// Package queue defines message payloads exchanged over the message broker.
package queue

// ScheduleChangedEvent is published whenever a screening is created,
// updated or deleted. It carries enough denormalized information for
// downstream consumers to build an audit trail without querying the
// primary database.
type ScheduleChangedEvent struct {
	Action      string `json:"action"` // created, updated or deleted
	ScreeningID uint64 `json:"screening_id"`
	MovieTitle  string `json:"movie_title"`
	RoomName    string `json:"room_name"`
	Showtime    string `json:"showtime"`
	StartsAt    string `json:"starts_at"`
	IsActive    bool   `json:"is_active"`
	OccurredAt  string `json:"occurred_at"`
}
