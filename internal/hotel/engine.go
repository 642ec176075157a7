package hotel

import (
	"sort"
	"sync"
)

// Engine is the booking authority. It owns the room inventory, the customer
// registry and the reservation ledger, and serializes every mutation behind
// one lock: the overlap check and the commit must be observed as a single
// atomic unit per room, and a global lock is the simplest way to get that.
type Engine struct {
	mu sync.RWMutex

	rooms        map[int]*Room
	customers    map[int]*Customer
	reservations map[int]*Reservation

	// Independent counters, each starting at 1. Ids are never reused,
	// even after deletion.
	nextRoomID        int
	nextCustomerID    int
	nextReservationID int
}

func NewEngine() *Engine {
	return &Engine{
		rooms:             map[int]*Room{},
		customers:         map[int]*Customer{},
		reservations:      map[int]*Reservation{},
		nextRoomID:        1,
		nextCustomerID:    1,
		nextReservationID: 1,
	}
}

// ---- room inventory ----

func (e *Engine) AddRoom(roomType string, rateCents int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextRoomID
	e.nextRoomID++
	e.rooms[id] = &Room{ID: id, Type: roomType, RateCents: rateCents}
	return id
}

func (e *Engine) UpdateRoom(id int, roomType string, rateCents int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	r.Type = roomType
	r.RateCents = rateCents
	return nil
}

// RemoveRoom refuses to drop a room that active reservations still
// reference; cancel them first.
func (e *Engine) RemoveRoom(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.rooms[id]; !ok {
		return ErrRoomNotFound
	}
	if e.roomBookedLocked(id) {
		return ErrRoomBooked
	}
	delete(e.rooms, id)
	return nil
}

func (e *Engine) Room(id int) (RoomView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, ok := e.rooms[id]
	if !ok {
		return RoomView{}, ErrRoomNotFound
	}
	return RoomView{Room: *r, Available: !e.roomBookedLocked(id)}, nil
}

func (e *Engine) Rooms() []RoomView {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]RoomView, 0, len(e.rooms))
	for id, r := range e.rooms {
		out = append(out, RoomView{Room: *r, Available: !e.roomBookedLocked(id)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RoomAvailable reports whether no active reservation references the room.
func (e *Engine) RoomAvailable(id int) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.rooms[id]; !ok {
		return false, ErrRoomNotFound
	}
	return !e.roomBookedLocked(id), nil
}

func (e *Engine) roomBookedLocked(roomID int) bool {
	for _, res := range e.reservations {
		if res.RoomID == roomID {
			return true
		}
	}
	return false
}

// ---- customer registry ----

func (e *Engine) AddCustomer(name, email string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextCustomerID
	e.nextCustomerID++
	e.customers[id] = &Customer{ID: id, Name: name, Email: email}
	return id
}

func (e *Engine) UpdateCustomer(id int, name, email string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.customers[id]
	if !ok {
		return ErrCustomerNotFound
	}
	c.Name = name
	c.Email = email
	return nil
}

// RemoveCustomer does not cascade: existing reservations keep their
// customer id.
func (e *Engine) RemoveCustomer(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.customers[id]; !ok {
		return ErrCustomerNotFound
	}
	delete(e.customers, id)
	return nil
}

func (e *Engine) Customer(id int) (Customer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.customers[id]
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}
	return *c, nil
}

func (e *Engine) Customers() []Customer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Customer, 0, len(e.customers))
	for _, c := range e.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---- reservation ledger ----

// MakeReservation runs the booking algorithm: validate dates, scan the
// ledger for an overlapping stay on the room, resolve the references, price
// the stay, commit. The new reservation is visible to subsequent overlap
// checks as soon as this returns.
func (e *Engine) MakeReservation(roomID, customerID int, startDate, endDate string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.buildReservationLocked(roomID, customerID, startDate, endDate, 0)
	if err != nil {
		return 0, err
	}
	e.commitReservationLocked(res)
	return res.ID, nil
}

// UpdateReservation replaces a reservation with a new room/date combination
// under the same customer. Validate-then-commit: nothing is mutated until
// the replacement is known to be bookable, so a rejected update leaves the
// original stay intact. The old record is destroyed and a fresh id is
// allocated for the replacement.
func (e *Engine) UpdateReservation(id, newRoomID int, newStartDate, newEndDate string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old, ok := e.reservations[id]
	if !ok {
		return 0, ErrReservationNotFound
	}
	// The record being replaced must not count against its own replacement.
	res, err := e.buildReservationLocked(newRoomID, old.CustomerID, newStartDate, newEndDate, id)
	if err != nil {
		return 0, err
	}
	delete(e.reservations, id)
	e.commitReservationLocked(res)
	return res.ID, nil
}

func (e *Engine) CancelReservation(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	delete(e.reservations, id)
	return nil
}

// GenerateBill returns the amount stored at booking time; it never
// recomputes against the room's current rate.
func (e *Engine) GenerateBill(id int) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	res, ok := e.reservations[id]
	if !ok {
		return 0, ErrReservationNotFound
	}
	return res.TotalCents, nil
}

func (e *Engine) Reservation(id int) (Reservation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	res, ok := e.reservations[id]
	if !ok {
		return Reservation{}, ErrReservationNotFound
	}
	return *res, nil
}

func (e *Engine) Reservations() []Reservation {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Reservation, 0, len(e.reservations))
	for _, res := range e.reservations {
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// buildReservationLocked runs every check of the booking algorithm without
// mutating state. excludeID skips one ledger entry during the overlap scan
// (the reservation an update is about to replace; 0 skips nothing).
func (e *Engine) buildReservationLocked(roomID, customerID int, startDate, endDate string, excludeID int) (*Reservation, error) {
	if !ValidDate(startDate) || !ValidDate(endDate) {
		return nil, ErrInvalidDate
	}
	for _, other := range e.reservations {
		if other.RoomID != roomID || other.ID == excludeID {
			continue
		}
		if Overlaps(startDate, endDate, other.StartDate, other.EndDate) {
			return nil, ErrRoomUnavailable
		}
	}
	room, ok := e.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if _, ok := e.customers[customerID]; !ok {
		return nil, ErrCustomerNotFound
	}
	return &Reservation{
		RoomID:     roomID,
		CustomerID: customerID,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalCents: room.RateCents * Nights(startDate, endDate),
	}, nil
}

func (e *Engine) commitReservationLocked(res *Reservation) {
	res.ID = e.nextReservationID
	e.nextReservationID++
	e.reservations[res.ID] = res
}
