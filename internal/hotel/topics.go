package hotel

import "strconv"

const (
	TopicReservationCreated   = "reservation.created"
	TopicReservationUpdated   = "reservation.updated"
	TopicReservationCancelled = "reservation.cancelled"
)

// Partition key = reservation id, so all events for one reservation keep
// their order.
func PartitionKey(reservationID int) []byte {
	return []byte(strconv.Itoa(reservationID))
}
