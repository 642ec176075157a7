package hotel

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidDate         = errors.New("invalid date format")
	ErrRoomUnavailable     = errors.New("room is not available for the selected dates")
	ErrRoomBooked          = errors.New("room has active reservations")
)

// IsNotFound reports whether err is one of the lookup failures, so callers
// can map all three to a single 404 without listing them.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrReservationNotFound)
}
