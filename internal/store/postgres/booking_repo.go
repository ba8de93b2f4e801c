package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/store"
)

const confirmedSlotConstraint = "bookings_confirmed_slot_key"

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateConfirmedBooking relies on the partial unique index over confirmed rows: of two
// concurrent inserts for the same slot exactly one commits, the other gets ErrConflict.
// A holder that expired but was not swept yet is released first inside the same transaction.
func (r *BookingRepo) CreateConfirmedBooking(ctx context.Context, b domain.Booking, now time.Time) (domain.Booking, error) {
	m := b
	m.Status = domain.BookingStatusConfirmed

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*domain.Booking)(nil)).
			Set("status = ?", domain.BookingStatusExpired).
			Where("provider_id = ?", m.ProviderID).
			Where("date = ?", m.Date).
			Where("start_time = ?", m.StartTime).
			Where("status = ?", domain.BookingStatusConfirmed).
			Where("expires_at <= ?", now).
			Exec(ctx)
		if err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			if isConfirmedSlotViolation(err) {
				return store.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return m, nil
}

func isConfirmedSlotViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == confirmedSlotConstraint
}

func (r *BookingRepo) HasConfirmedBooking(ctx context.Context, providerID, date, startTime string, now time.Time) (bool, error) {
	return r.db.NewSelect().
		Model((*domain.Booking)(nil)).
		Where("provider_id = ?", providerID).
		Where("date = ?", date).
		Where("start_time = ?", startTime).
		Where("status = ?", domain.BookingStatusConfirmed).
		Where("expires_at > ?", now).
		Exists(ctx)
}

func (r *BookingRepo) ListConfirmedBookings(ctx context.Context, providerID, fromDate, toDate string, now time.Time) ([]domain.Booking, error) {
	var rows []domain.Booking
	q := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("status = ?", domain.BookingStatusConfirmed).
		Where("expires_at > ?", now).
		Where("date >= ?", fromDate)
	if toDate != "" {
		q = q.Where("date <= ?", toDate)
	}
	if err := q.OrderExpr("date ASC, start_time ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ExpireBookings(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*domain.Booking)(nil)).
		Set("status = ?", domain.BookingStatusExpired).
		Where("status = ?", domain.BookingStatusConfirmed).
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
