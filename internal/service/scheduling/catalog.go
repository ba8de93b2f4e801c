package scheduling

import (
	"context"
	"strings"

	"barberq/backend/internal/domain"
)

type AddServiceInput struct {
	ProviderID      string
	Name            string
	Price           *float64
	DurationMinutes int
}

func (s *Service) AddService(ctx context.Context, in AddServiceInput) (domain.Service, error) {
	if in.ProviderID == "" {
		return domain.Service{}, validationError("provider_id is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price == nil || in.DurationMinutes == 0 {
		return domain.Service{}, validationError("missing required fields")
	}
	if *in.Price < 0 {
		return domain.Service{}, validationError("price must not be negative")
	}
	if in.DurationMinutes < 0 {
		return domain.Service{}, validationError("durationMinutes must be positive")
	}

	return s.catalog.CreateService(ctx, domain.Service{
		ProviderID:      in.ProviderID,
		Name:            name,
		Price:           *in.Price,
		DurationMinutes: in.DurationMinutes,
	})
}

func (s *Service) ListServices(ctx context.Context, providerID string) ([]domain.Service, error) {
	if providerID == "" {
		return nil, validationError("missing businessId")
	}
	return s.catalog.ListServices(ctx, providerID)
}
