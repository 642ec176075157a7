package archive

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
	kafkax "github.com/hoteldesk/go-hotel-reservations/internal/kafka"
)

type stubArchiver struct {
	created   []hotel.ReservationCreatedPayload
	updated   []hotel.ReservationUpdatedPayload
	cancelled []hotel.ReservationCancelledPayload
	err       error
}

func (s *stubArchiver) ArchiveCreated(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationCreatedPayload) error {
	s.created = append(s.created, p)
	return s.err
}

func (s *stubArchiver) ArchiveUpdated(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationUpdatedPayload) error {
	s.updated = append(s.updated, p)
	return s.err
}

func (s *stubArchiver) ArchiveCancelled(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationCancelledPayload) error {
	s.cancelled = append(s.cancelled, p)
	return s.err
}

func message(t *testing.T, eventType string, payload any) kafkago.Message {
	t.Helper()
	env := hotel.Envelope{
		EventID:      "ev-1",
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "hotel-api-test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleEventCreated(t *testing.T) {
	repo := &stubArchiver{}
	svc := &Service{Repo: repo, ServiceName: "archiver-test"}

	p := hotel.ReservationCreatedPayload{
		ReservationID: 1, RoomID: 2, CustomerID: 3,
		StartDate: "2024-03-01", EndDate: "2024-03-02", TotalCents: 10000,
	}
	err := svc.HandleEvent(context.Background(), message(t, hotel.EventReservationCreated, p))
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, p, repo.created[0])
}

func TestHandleEventUpdatedAndCancelled(t *testing.T) {
	repo := &stubArchiver{}
	svc := &Service{Repo: repo, ServiceName: "archiver-test"}

	up := hotel.ReservationUpdatedPayload{OldReservationID: 1, ReservationID: 2, RoomID: 4}
	require.NoError(t, svc.HandleEvent(context.Background(), message(t, hotel.EventReservationUpdated, up)))
	require.Len(t, repo.updated, 1)
	assert.Equal(t, 1, repo.updated[0].OldReservationID)

	cp := hotel.ReservationCancelledPayload{ReservationID: 2, RoomID: 4, CustomerID: 3}
	require.NoError(t, svc.HandleEvent(context.Background(), message(t, hotel.EventReservationCancelled, cp)))
	require.Len(t, repo.cancelled, 1)
	assert.Equal(t, 2, repo.cancelled[0].ReservationID)
}

func TestHandleEventIgnoresUnknownTypes(t *testing.T) {
	repo := &stubArchiver{}
	svc := &Service{Repo: repo, ServiceName: "archiver-test"}

	err := svc.HandleEvent(context.Background(), message(t, "SomethingElse", map[string]int{"x": 1}))
	require.NoError(t, err)
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated)
	assert.Empty(t, repo.cancelled)
}

func TestHandleEventBadEnvelope(t *testing.T) {
	svc := &Service{Repo: &stubArchiver{}, ServiceName: "archiver-test"}
	err := svc.HandleEvent(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestHandleEventPropagatesRepoError(t *testing.T) {
	repo := &stubArchiver{err: assert.AnError}
	svc := &Service{Repo: repo, ServiceName: "archiver-test"}

	p := hotel.ReservationCreatedPayload{ReservationID: 1}
	err := svc.HandleEvent(context.Background(), message(t, hotel.EventReservationCreated, p))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestHandleEventBadPayload(t *testing.T) {
	svc := &Service{Repo: &stubArchiver{}, ServiceName: "archiver-test"}
	env := hotel.Envelope{
		EventID:   "ev-2",
		EventType: hotel.EventReservationCreated,
		Payload:   json.RawMessage(`"not an object"`),
	}
	err := svc.HandleEvent(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)})
	assert.Error(t, err)
}
