package hotel

type Room struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	RateCents int    `json:"rate_cents"`
}

type Customer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Reservation references rooms and customers by id only; embedded copies
// would go stale when the referenced record is edited.
type Reservation struct {
	ID         int    `json:"id"`
	RoomID     int    `json:"room_id"`
	CustomerID int    `json:"customer_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
	TotalCents int    `json:"total_cents"`
}

// RoomView is the read model for a room. Available is derived from the
// ledger at query time, it is not stored anywhere.
type RoomView struct {
	Room
	Available bool `json:"available"`
}
