// Package services – ServiceTypeService
//
// Catalog of billable offerings. Deletion is refused while case line items
// still reference the type; popularity is ranked by real attachment counts in
// the services table.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/repo"
)

// defaultPopularLimit caps the populares ranking when the caller sends none.
const defaultPopularLimit = 10

// ServiceTypeService provides CRUD, search, and usage ranking over the
// service-type catalog.
type ServiceTypeService struct {
	DB *gorm.DB
}

// NewServiceTypeService constructs a ServiceTypeService.
func NewServiceTypeService(db *gorm.DB) *ServiceTypeService {
	return &ServiceTypeService{DB: db}
}

// ServiceTypeInput is the payload for creating or updating a service type.
type ServiceTypeInput struct {
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Notas       *string         `json:"notas"`
}

// List returns service types, optionally filtered by a term over name and
// description.
func (s *ServiceTypeService) List(ctx context.Context, search string) ([]domain.ServiceType, error) {
	return repo.ListServiceTypes(ctx, s.DB, strings.TrimSpace(search))
}

// Get returns a service type by id, or ErrServiceTypeNotFound.
func (s *ServiceTypeService) Get(ctx context.Context, id int) (*domain.ServiceType, error) {
	st, err := repo.GetServiceType(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrServiceTypeNotFound
	}
	return st, err
}

// Create inserts a new service type. Name is mandatory and the price must be
// zero or positive; duplicate names are rejected.
func (s *ServiceTypeService) Create(ctx context.Context, in ServiceTypeInput) (*domain.ServiceType, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, ErrMissingFields
	}
	if in.Precio.IsNegative() {
		return nil, ErrInvalidPrice
	}
	st := &domain.ServiceType{
		Name:        nombre,
		Description: strings.TrimSpace(in.Descripcion),
		Price:       in.Precio,
		Notes:       trimmedPtr(in.Notas),
	}
	if err := repo.CreateServiceType(ctx, s.DB, st); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return st, nil
}

// Update overwrites a service type's fields.
func (s *ServiceTypeService) Update(ctx context.Context, id int, in ServiceTypeInput) (*domain.ServiceType, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, ErrMissingFields
	}
	if in.Precio.IsNegative() {
		return nil, ErrInvalidPrice
	}
	err := repo.UpdateServiceType(ctx, s.DB, id, &domain.ServiceType{
		Name:        nombre,
		Description: strings.TrimSpace(in.Descripcion),
		Price:       in.Precio,
		Notes:       trimmedPtr(in.Notas),
	})
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrServiceTypeNotFound
	case errors.Is(err, repo.ErrDuplicate):
		return nil, ErrDuplicateName
	default:
		return nil, err
	}
	return repo.GetServiceType(ctx, s.DB, id)
}

// Delete removes a service type. Types still referenced by case line items
// are protected and return ErrServiceTypeInUse.
func (s *ServiceTypeService) Delete(ctx context.Context, id int) error {
	inUse, err := repo.ServiceTypeInUse(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrServiceTypeInUse
	}
	if err := repo.DeleteServiceType(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrServiceTypeNotFound
		}
		return err
	}
	return nil
}

// Search returns up to ten service types matching q. Terms shorter than two
// characters are rejected.
func (s *ServiceTypeService) Search(ctx context.Context, q string) ([]domain.ServiceType, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < 2 {
		return nil, ErrSearchTooShort
	}
	out, err := repo.ListServiceTypes(ctx, s.DB, q)
	if err != nil {
		return nil, err
	}
	if len(out) > searchTop {
		out = out[:searchTop]
	}
	return out, nil
}

// Popular returns service types ranked by how many case line items reference
// them, most used first.
func (s *ServiceTypeService) Popular(ctx context.Context, limit int) ([]domain.ServiceTypeUsage, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	return repo.PopularServiceTypes(ctx, s.DB, limit)
}

// trimmedPtr trims a string pointer, mapping blank values to nil.
func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
