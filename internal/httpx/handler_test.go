package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
)

type stubPublisher struct {
	keys   [][]byte
	values [][]byte
}

func (s *stubPublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	s.keys = append(s.keys, key)
	s.values = append(s.values, value)
}

func newTestServer(t *testing.T) (*httptest.Server, *hotel.Engine, *stubPublisher, *stubPublisher, *stubPublisher) {
	t.Helper()
	engine := hotel.NewEngine()
	created := &stubPublisher{}
	updated := &stubPublisher{}
	cancelled := &stubPublisher{}

	router := NewRouter()
	h := &Handler{
		Engine:    engine,
		Created:   created,
		Updated:   updated,
		Cancelled: cancelled,
		Service:   "hotel-api-test",
	}
	h.Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, engine, created, updated, cancelled
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRoomLifecycle(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/rooms", RoomReq{Type: "Deluxe", RateCents: 10000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[CreateResp](t, resp).ID
	assert.Equal(t, 1, id)

	resp = doJSON(t, http.MethodPut, srv.URL+"/rooms/1", RoomReq{Type: "Suite", RateCents: 20000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/rooms/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	room := decode[hotel.RoomView](t, resp)
	assert.Equal(t, "Suite", room.Type)
	assert.True(t, room.Available)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/rooms/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/rooms/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestMakeReservationPublishesEvent(t *testing.T) {
	srv, engine, created, _, _ := newTestServer(t)
	roomID := engine.AddRoom("Deluxe", 10000)
	custID := engine.AddCustomer("Alice", "a@x.com")

	resp := doJSON(t, http.MethodPost, srv.URL+"/reservations", MakeReservationReq{
		RoomID: roomID, CustomerID: custID, StartDate: "2024-03-01", EndDate: "2024-03-02",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[ReservationResp](t, resp)
	assert.Equal(t, 1, out.ReservationID)
	assert.Equal(t, 10000, out.TotalCents)

	require.Len(t, created.values, 1)
	var env hotel.Envelope
	require.NoError(t, json.Unmarshal(created.values[0], &env))
	assert.Equal(t, hotel.EventReservationCreated, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "1", env.CorrelationID)
	assert.Equal(t, []byte("1"), created.keys[0])

	var p hotel.ReservationCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, roomID, p.RoomID)
	assert.Equal(t, 10000, p.TotalCents)
}

func TestReservationErrorMapping(t *testing.T) {
	srv, engine, created, _, _ := newTestServer(t)
	roomID := engine.AddRoom("Deluxe", 10000)
	custID := engine.AddCustomer("Alice", "a@x.com")
	_, err := engine.MakeReservation(roomID, custID, "2024-03-01", "2024-03-05")
	require.NoError(t, err)

	cases := []struct {
		name string
		req  MakeReservationReq
		want int
	}{
		{"overlap", MakeReservationReq{roomID, custID, "2024-03-02", "2024-03-04"}, http.StatusConflict},
		{"touching", MakeReservationReq{roomID, custID, "2024-03-05", "2024-03-08"}, http.StatusConflict},
		{"bad date", MakeReservationReq{roomID, custID, "03/02/2024", "2024-03-04"}, http.StatusBadRequest},
		{"room missing", MakeReservationReq{99, custID, "2024-06-01", "2024-06-02"}, http.StatusNotFound},
		{"customer missing", MakeReservationReq{roomID, 99, "2024-06-01", "2024-06-02"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/reservations", tc.req)
			assert.Equal(t, tc.want, resp.StatusCode)
			resp.Body.Close()
		})
	}

	// no event left the building for any failed booking
	assert.Empty(t, created.values)
}

func TestCancelReservation(t *testing.T) {
	srv, engine, _, _, cancelled := newTestServer(t)
	roomID := engine.AddRoom("Deluxe", 10000)
	custID := engine.AddCustomer("Alice", "a@x.com")
	resID, err := engine.MakeReservation(roomID, custID, "2024-03-01", "2024-03-05")
	require.NoError(t, err)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/reservations/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Len(t, cancelled.values, 1)
	var env hotel.Envelope
	require.NoError(t, json.Unmarshal(cancelled.values[0], &env))
	assert.Equal(t, hotel.EventReservationCancelled, env.EventType)
	var p hotel.ReservationCancelledPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, resID, p.ReservationID)
	assert.Equal(t, roomID, p.RoomID)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/reservations/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateReservation(t *testing.T) {
	srv, engine, _, updated, _ := newTestServer(t)
	roomA := engine.AddRoom("Deluxe", 10000)
	roomB := engine.AddRoom("Suite", 20000)
	custID := engine.AddCustomer("Alice", "a@x.com")
	resID, err := engine.MakeReservation(roomA, custID, "2024-03-01", "2024-03-05")
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPut, srv.URL+"/reservations/1", UpdateReservationReq{
		RoomID: roomB, StartDate: "2024-04-01", EndDate: "2024-04-03",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[ReservationResp](t, resp)
	assert.Equal(t, resID+1, out.ReservationID)
	assert.Equal(t, 40000, out.TotalCents)

	require.Len(t, updated.values, 1)
	var env hotel.Envelope
	require.NoError(t, json.Unmarshal(updated.values[0], &env))
	var p hotel.ReservationUpdatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, resID, p.OldReservationID)
	assert.Equal(t, out.ReservationID, p.ReservationID)
}

func TestGenerateBill(t *testing.T) {
	srv, engine, _, _, _ := newTestServer(t)
	roomID := engine.AddRoom("Deluxe", 10000)
	custID := engine.AddCustomer("Alice", "a@x.com")
	_, err := engine.MakeReservation(roomID, custID, "2024-01-01", "2024-01-03")
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, srv.URL+"/reservations/1/bill", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bill := decode[BillResp](t, resp)
	assert.Equal(t, 20000, bill.TotalCents)

	resp = doJSON(t, http.MethodGet, srv.URL+"/reservations/42/bill", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBadRequests(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/rooms", map[string]any{"rate_cents": -5, "type": "Deluxe"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/customers", CustomerReq{Name: "Alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/reservations/notanumber", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
