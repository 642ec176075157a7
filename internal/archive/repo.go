package archive

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
)

// Repo persists the reservation event stream: an append-only audit table
// plus a bookings mirror kept in step with the engine's ledger.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ArchiveCreated(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationCreatedPayload) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertEvent(ctx, tx, eventID, hotel.EventReservationCreated, p.ReservationID, occurredAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO bookings(reservation_id, room_id, customer_id, start_date, end_date, total_cents, status)
		VALUES ($1,$2,$3,$4,$5,$6,'ACTIVE')
		ON CONFLICT (reservation_id) DO NOTHING
	`, p.ReservationID, p.RoomID, p.CustomerID, p.StartDate, p.EndDate, p.TotalCents); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) ArchiveUpdated(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationUpdatedPayload) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertEvent(ctx, tx, eventID, hotel.EventReservationUpdated, p.ReservationID, occurredAt); err != nil {
		return err
	}
	// The old record is replaced, not edited: flip it and insert the new one.
	if _, err := tx.Exec(ctx, `
		UPDATE bookings SET status='REPLACED' WHERE reservation_id=$1 AND status='ACTIVE'
	`, p.OldReservationID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO bookings(reservation_id, room_id, customer_id, start_date, end_date, total_cents, status)
		VALUES ($1,$2,$3,$4,$5,$6,'ACTIVE')
		ON CONFLICT (reservation_id) DO NOTHING
	`, p.ReservationID, p.RoomID, p.CustomerID, p.StartDate, p.EndDate, p.TotalCents); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) ArchiveCancelled(ctx context.Context, eventID string, occurredAt time.Time, p hotel.ReservationCancelledPayload) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertEvent(ctx, tx, eventID, hotel.EventReservationCancelled, p.ReservationID, occurredAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE bookings SET status='CANCELLED' WHERE reservation_id=$1 AND status='ACTIVE'
	`, p.ReservationID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertEvent(ctx context.Context, tx pgx.Tx, eventID, eventType string, reservationID int, occurredAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO reservation_events(event_id, event_type, reservation_id, occurred_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (event_id) DO NOTHING
	`, eventID, eventType, reservationID, occurredAt)
	return err
}
