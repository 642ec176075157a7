package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
	kafkax "github.com/hoteldesk/go-hotel-reservations/internal/kafka"
	"github.com/hoteldesk/go-hotel-reservations/internal/redisx"
)

type MakeReservationReq struct {
	RoomID     int    `json:"room_id"`
	CustomerID int    `json:"customer_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type UpdateReservationReq struct {
	RoomID    int    `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type ReservationResp struct {
	ReservationID int `json:"reservation_id"`
	TotalCents    int `json:"total_cents"`
}

type BillResp struct {
	ReservationID int `json:"reservation_id"`
	TotalCents    int `json:"total_cents"`
}

func (h *Handler) makeReservation(w http.ResponseWriter, r *http.Request) {
	var req MakeReservationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.RoomID <= 0 || req.CustomerID <= 0 || req.StartDate == "" || req.EndDate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Engine.MakeReservation(req.RoomID, req.CustomerID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Engine.Reservation(id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheReservation(ctx, res)
	h.publish(h.Created, hotel.EventReservationCreated, res.ID, r.Header.Get("X-Request-Id"),
		hotel.ReservationCreatedPayload{
			ReservationID: res.ID,
			RoomID:        res.RoomID,
			CustomerID:    res.CustomerID,
			StartDate:     res.StartDate,
			EndDate:       res.EndDate,
			TotalCents:    res.TotalCents,
		})

	writeJSON(w, http.StatusCreated, ReservationResp{ReservationID: res.ID, TotalCents: res.TotalCents})
}

func (h *Handler) updateReservation(w http.ResponseWriter, r *http.Request) {
	oldID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req UpdateReservationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.RoomID <= 0 || req.StartDate == "" || req.EndDate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	newID, err := h.Engine.UpdateReservation(oldID, req.RoomID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Engine.Reservation(newID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.dropCache(ctx, oldID)
	h.cacheReservation(ctx, res)
	h.publish(h.Updated, hotel.EventReservationUpdated, res.ID, r.Header.Get("X-Request-Id"),
		hotel.ReservationUpdatedPayload{
			OldReservationID: oldID,
			ReservationID:    res.ID,
			RoomID:           res.RoomID,
			CustomerID:       res.CustomerID,
			StartDate:        res.StartDate,
			EndDate:          res.EndDate,
			TotalCents:       res.TotalCents,
		})

	writeJSON(w, http.StatusOK, ReservationResp{ReservationID: res.ID, TotalCents: res.TotalCents})
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Snapshot the record first: the cancelled event needs room/customer ids.
	res, err := h.Engine.Reservation(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Engine.CancelReservation(id); err != nil {
		writeError(w, err)
		return
	}

	h.dropCache(ctx, id)
	h.publish(h.Cancelled, hotel.EventReservationCancelled, id, r.Header.Get("X-Request-Id"),
		hotel.ReservationCancelledPayload{
			ReservationID: id,
			RoomID:        res.RoomID,
			CustomerID:    res.CustomerID,
		})

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache first, engine as fallback
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyReservation, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	res, err := h.Engine.Reservation(id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheReservation(ctx, res)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Reservations())
}

func (h *Handler) generateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	total, err := h.Engine.GenerateBill(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BillResp{ReservationID: id, TotalCents: total})
}

func (h *Handler) cacheReservation(ctx context.Context, res hotel.Reservation) {
	if h.Redis == nil {
		return
	}
	b, _ := json.Marshal(res)
	key := fmt.Sprintf(redisx.KeyReservation, res.ID)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLReservation).Err()
}

func (h *Handler) dropCache(ctx context.Context, id int) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyReservation, id)).Err()
}

func (h *Handler) publish(p Publisher, eventType string, reservationID int, traceID string, payload any) {
	if p == nil {
		return
	}
	ev := hotel.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: fmt.Sprintf("%d", reservationID),
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(hotel.PartitionKey(reservationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
