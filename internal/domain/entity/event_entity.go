package entity

import "time"

// EventState is derived from the verified flag.
type EventState string

const (
	EventStatePending  EventState = "pending"
	EventStateVerified EventState = "verified"
)

// ScheduledEvent is an activity a user committed to attend.
// Verified flips false -> true once and never reverts.
// Latitude/Longitude are nil when the scheduling form carried no coordinates.
type ScheduledEvent struct {
	ID               string
	UserID           string
	Activity         string
	Description      string
	Location         string
	Latitude         *float64
	Longitude        *float64
	Geohash          string
	TimeAvailability string
	ScheduledDate    time.Time
	Verified         bool
	VerifiedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e *ScheduledEvent) State() EventState {
	if e.Verified {
		return EventStateVerified
	}
	return EventStatePending
}

// OwnedBy reports whether userID created the event.
func (e *ScheduledEvent) OwnedBy(userID string) bool {
	return e != nil && userID != "" && e.UserID == userID
}
