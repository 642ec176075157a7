package redisx

import "time"

const (
	// Reservation view cache: resv:{reservation_id} -> reservation JSON
	KeyReservation = "resv:%d"

	// Bill cache: bill:{reservation_id} -> {"total_cents": ...}
	KeyBill = "bill:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLReservation = 5 * time.Minute
	TTLBill        = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
