package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/store"
)

type ServiceRepo struct {
	db *bun.DB
}

func NewServiceRepo(db *bun.DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	m := svc
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Service{}, err
	}
	return m, nil
}

func (r *ServiceRepo) GetService(ctx context.Context, providerID string, serviceID uuid.UUID) (domain.Service, error) {
	var out domain.Service
	err := r.db.NewSelect().
		Model(&out).
		Where("provider_id = ?", providerID).
		Where("id = ?", serviceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Service{}, store.ErrNotFound
		}
		return domain.Service{}, err
	}
	return out, nil
}

func (r *ServiceRepo) ListServices(ctx context.Context, providerID string) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
