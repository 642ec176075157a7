package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
	kafkax "github.com/hoteldesk/go-hotel-reservations/internal/kafka"
	"github.com/hoteldesk/go-hotel-reservations/internal/redisx"
)

// Archiver is the Repo surface the service needs; tests supply a stub.
type Archiver interface {
	ArchiveCreated(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationCreatedPayload) error
	ArchiveUpdated(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationUpdatedPayload) error
	ArchiveCancelled(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationCancelledPayload) error
}

type Service struct {
	Repo        Archiver
	Redis       *redis.Client // nil disables the dedup short-circuit
	ServiceName string
}

// HandleEvent is the consumer handler for all three reservation topics.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env hotel.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	switch env.EventType {
	case hotel.EventReservationCreated, hotel.EventReservationUpdated, hotel.EventReservationCancelled:
	default:
		return nil // ignore
	}

	// dedup via Redis on event_id; the DB writes are idempotent anyway, this
	// just skips the round trip on redelivery
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
	}

	if err := s.archive(ctx, env); err != nil {
		return err
	}
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}
	return nil
}

func (s *Service) archive(ctx context.Context, env hotel.Envelope) error {
	switch env.EventType {
	case hotel.EventReservationCreated:
		p, err := kafkax.UnwrapPayload[hotel.ReservationCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Repo.ArchiveCreated(ctx, env.EventID, env.OccurredAt, p)
	case hotel.EventReservationUpdated:
		p, err := kafkax.UnwrapPayload[hotel.ReservationUpdatedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Repo.ArchiveUpdated(ctx, env.EventID, env.OccurredAt, p)
	default:
		p, err := kafkax.UnwrapPayload[hotel.ReservationCancelledPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Repo.ArchiveCancelled(ctx, env.EventID, env.OccurredAt, p)
	}
}
