package hotel

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Snapshot persistence in the legacy flat-file format: one record per line,
// comma-separated fields in fixed order, no escaping. encoding/csv would
// quote values and break the format, so lines are assembled by hand and
// fields containing commas are rejected outright.
//
//	rooms.txt:        id,type,rate,available
//	customers.txt:    id,name,email
//	reservations.txt: id,roomId,customerId,start,end,total
//
// The availability column is derived at save time and ignored on load; the
// ledger is the source of truth.

const (
	roomsFile        = "rooms.txt"
	customersFile    = "customers.txt"
	reservationsFile = "reservations.txt"
)

var ErrFieldComma = fmt.Errorf("field contains a comma")

// SaveSnapshot writes the engine state under dir, creating it if needed.
func SaveSnapshot(dir string, e *Engine) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var rooms []string
	for _, id := range sortedKeys(e.rooms) {
		r := e.rooms[id]
		if strings.ContainsAny(r.Type, ",\n") {
			return fmt.Errorf("room %d type: %w", r.ID, ErrFieldComma)
		}
		avail := "1"
		if e.roomBookedLocked(r.ID) {
			avail = "0"
		}
		rooms = append(rooms, fmt.Sprintf("%d,%s,%d,%s", r.ID, r.Type, r.RateCents, avail))
	}

	var customers []string
	for _, id := range sortedKeys(e.customers) {
		c := e.customers[id]
		if strings.ContainsAny(c.Name, ",\n") || strings.ContainsAny(c.Email, ",\n") {
			return fmt.Errorf("customer %d: %w", c.ID, ErrFieldComma)
		}
		customers = append(customers, fmt.Sprintf("%d,%s,%s", c.ID, c.Name, c.Email))
	}

	var reservations []string
	for _, id := range sortedKeys(e.reservations) {
		res := e.reservations[id]
		reservations = append(reservations, fmt.Sprintf("%d,%d,%d,%s,%s,%d",
			res.ID, res.RoomID, res.CustomerID, res.StartDate, res.EndDate, res.TotalCents))
	}

	if err := writeLines(filepath.Join(dir, roomsFile), rooms); err != nil {
		return err
	}
	if err := writeLines(filepath.Join(dir, customersFile), customers); err != nil {
		return err
	}
	return writeLines(filepath.Join(dir, reservationsFile), reservations)
}

// LoadSnapshot rebuilds an engine from dir. Missing files are treated as
// empty collections, so a fresh data dir yields a fresh engine. Counters
// resume past the highest persisted id in each namespace.
func LoadSnapshot(dir string) (*Engine, error) {
	e := NewEngine()

	roomLines, err := readLines(filepath.Join(dir, roomsFile))
	if err != nil {
		return nil, err
	}
	for _, ln := range roomLines {
		f := strings.Split(ln, ",")
		if len(f) != 4 {
			return nil, fmt.Errorf("rooms: malformed line %q", ln)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, fmt.Errorf("rooms: bad id in %q", ln)
		}
		rate, err := strconv.Atoi(f[2])
		if err != nil {
			return nil, fmt.Errorf("rooms: bad rate in %q", ln)
		}
		e.rooms[id] = &Room{ID: id, Type: f[1], RateCents: rate}
		if id >= e.nextRoomID {
			e.nextRoomID = id + 1
		}
	}

	custLines, err := readLines(filepath.Join(dir, customersFile))
	if err != nil {
		return nil, err
	}
	for _, ln := range custLines {
		f := strings.Split(ln, ",")
		if len(f) != 3 {
			return nil, fmt.Errorf("customers: malformed line %q", ln)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, fmt.Errorf("customers: bad id in %q", ln)
		}
		e.customers[id] = &Customer{ID: id, Name: f[1], Email: f[2]}
		if id >= e.nextCustomerID {
			e.nextCustomerID = id + 1
		}
	}

	resLines, err := readLines(filepath.Join(dir, reservationsFile))
	if err != nil {
		return nil, err
	}
	for _, ln := range resLines {
		f := strings.Split(ln, ",")
		if len(f) != 6 {
			return nil, fmt.Errorf("reservations: malformed line %q", ln)
		}
		nums := make([]int, 4)
		for i, idx := range []int{0, 1, 2, 5} {
			n, err := strconv.Atoi(f[idx])
			if err != nil {
				return nil, fmt.Errorf("reservations: bad field in %q", ln)
			}
			nums[i] = n
		}
		e.reservations[nums[0]] = &Reservation{
			ID:         nums[0],
			RoomID:     nums[1],
			CustomerID: nums[2],
			StartDate:  f[3],
			EndDate:    f[4],
			TotalCents: nums[3],
		}
		if nums[0] >= e.nextReservationID {
			e.nextReservationID = nums[0] + 1
		}
	}

	return e, nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, ln := range lines {
		if _, err := fmt.Fprintln(w, ln); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if ln := strings.TrimSpace(sc.Text()); ln != "" {
			out = append(out, ln)
		}
	}
	return out, sc.Err()
}
