package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
)

// Publisher is what the handlers need from the Kafka producer; the
// indirection keeps handler tests off the wire.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Handler serves the hotel API. Redis may be nil, in which caching is
// skipped; the publishers may be nil in tests.
type Handler struct {
	Engine    *hotel.Engine
	Created   Publisher
	Updated   Publisher
	Cancelled Publisher
	Redis     *redis.Client
	Service   string
}

func (h *Handler) Register(r *chi.Mux) {
	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", h.addRoom)
		r.Get("/", h.listRooms)
		r.Get("/{id}", h.getRoom)
		r.Put("/{id}", h.updateRoom)
		r.Delete("/{id}", h.removeRoom)
	})
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.addCustomer)
		r.Get("/", h.listCustomers)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.removeCustomer)
	})
	r.Route("/reservations", func(r chi.Router) {
		r.Post("/", h.makeReservation)
		r.Get("/", h.listReservations)
		r.Get("/{id}", h.getReservation)
		r.Put("/{id}", h.updateReservation)
		r.Delete("/{id}", h.cancelReservation)
		r.Get("/{id}/bill", h.generateBill)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case hotel.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, hotel.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, hotel.ErrRoomUnavailable), errors.Is(err, hotel.ErrRoomBooked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}
