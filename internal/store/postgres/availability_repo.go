package postgres

import (
	"context"
	"slices"

	"github.com/uptrace/bun"

	"barberq/backend/internal/domain"
)

type AvailabilityRepo struct {
	db *bun.DB
}

func NewAvailabilityRepo(db *bun.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) UpsertAvailability(ctx context.Context, w domain.AvailabilityWindow) error {
	m := domain.AvailabilityWindow{
		ProviderID:  w.ProviderID,
		Weekday:     w.Weekday,
		StartTime:   w.StartTime,
		EndTime:     w.EndTime,
		IsAvailable: w.IsAvailable,
	}

	_, err := r.db.NewInsert().
		Model(&m).
		On("CONFLICT (provider_id, weekday) DO UPDATE").
		Set("start_time = EXCLUDED.start_time").
		Set("end_time = EXCLUDED.end_time").
		Set("is_available = EXCLUDED.is_available").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *AvailabilityRepo) ListAvailability(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	sortByWeekday(rows)
	return rows, nil
}

func sortByWeekday(rows []domain.AvailabilityWindow) {
	slices.SortFunc(rows, func(a, b domain.AvailabilityWindow) int {
		return a.Weekday.Index() - b.Weekday.Index()
	})
}
