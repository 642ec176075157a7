package hotel

import (
	"encoding/json"
	"time"
)

const (
	EventReservationCreated   = "ReservationCreated"
	EventReservationUpdated   = "ReservationUpdated"
	EventReservationCancelled = "ReservationCancelled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "hotel-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // reservation id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payload types per event ----

type ReservationCreatedPayload struct {
	ReservationID int    `json:"reservation_id"`
	RoomID        int    `json:"room_id"`
	CustomerID    int    `json:"customer_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalCents    int    `json:"total_cents"`
}

// ReservationUpdatedPayload carries both ids: the replaced record and its
// replacement (the engine allocates a fresh id on update).
type ReservationUpdatedPayload struct {
	OldReservationID int    `json:"old_reservation_id"`
	ReservationID    int    `json:"reservation_id"`
	RoomID           int    `json:"room_id"`
	CustomerID       int    `json:"customer_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalCents       int    `json:"total_cents"`
}

type ReservationCancelledPayload struct {
	ReservationID int `json:"reservation_id"`
	RoomID        int `json:"room_id"`
	CustomerID    int `json:"customer_id"`
}
