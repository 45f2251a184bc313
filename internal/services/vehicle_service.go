// Package services – VehicleService
//
// Vehicle CRUD. Creation takes free-text brand and model names and funnels
// them through the catalog resolver; plates are normalized to upper-case
// before hitting the unique index, so duplicate detection is a property of
// the store rather than a pre-read.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/normalize"
	"github.com/tallerix/taller-backend/internal/repo"
)

// VehicleService provides vehicle CRUD on top of the catalog resolver.
type VehicleService struct {
	DB      *gorm.DB
	Catalog *CatalogService
}

// NewVehicleService constructs a VehicleService.
func NewVehicleService(db *gorm.DB, catalog *CatalogService) *VehicleService {
	return &VehicleService{DB: db, Catalog: catalog}
}

// CreateVehicleInput is the payload for registering a vehicle. Marca and
// Modelo are names, not ids; unknown ones are added to the catalog.
type CreateVehicleInput struct {
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Placa     string `json:"placa"`
	ClienteID int    `json:"clienteId"`
	Notas     string `json:"notas"`
}

// UpdateVehicleInput is the partial-update payload; nil fields are left
// untouched.
type UpdateVehicleInput struct {
	Placa *string `json:"placa"`
	Notas *string `json:"notas"`
}

// List returns vehicle views, optionally filtered by owner and/or a free-text
// term over plate, brand, model, and owner name.
func (s *VehicleService) List(ctx context.Context, clientID int, search string) ([]domain.VehicleView, error) {
	return repo.ListVehicleViews(ctx, s.DB, clientID, strings.TrimSpace(search))
}

// ListByClient returns the vehicles owned by a client, or ErrClientNotFound.
func (s *VehicleService) ListByClient(ctx context.Context, clientID int) ([]domain.VehicleView, error) {
	exists, err := repo.ClientExists(ctx, s.DB, clientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrClientNotFound
	}
	return repo.ListVehicleViews(ctx, s.DB, clientID, "")
}

// Get returns a vehicle view by id, or ErrVehicleNotFound.
func (s *VehicleService) Get(ctx context.Context, id int) (*domain.VehicleView, error) {
	v, err := repo.GetVehicleView(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

// Create registers a vehicle for an existing client, resolving brand and
// model names through the catalog. Returns ErrDuplicatePlate when the
// normalized plate is already registered.
func (s *VehicleService) Create(ctx context.Context, in CreateVehicleInput) (*domain.VehicleView, error) {
	placa := normalize.Plate(in.Placa)
	if strings.TrimSpace(in.Marca) == "" || strings.TrimSpace(in.Modelo) == "" ||
		placa == "" || in.ClienteID <= 0 {
		return nil, ErrMissingFields
	}

	exists, err := repo.ClientExists(ctx, s.DB, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrClientNotFound
	}

	brandID, err := s.Catalog.ResolveBrand(ctx, in.Marca)
	if err != nil {
		return nil, err
	}
	modelID, err := s.Catalog.ResolveModel(ctx, in.Modelo)
	if err != nil {
		return nil, err
	}

	v := &domain.Vehicle{
		BrandID:  brandID,
		ModelID:  modelID,
		Plate:    placa,
		ClientID: in.ClienteID,
		Notes:    strings.TrimSpace(in.Notas),
	}
	if err := repo.CreateVehicle(ctx, s.DB, v); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicatePlate
		}
		return nil, err
	}
	return repo.GetVehicleView(ctx, s.DB, v.ID)
}

// Update applies a partial update of plate and/or notes. Returns
// ErrVehicleNotFound for unknown ids, ErrMissingFields when no field is set,
// and ErrDuplicatePlate when the new plate collides.
func (s *VehicleService) Update(ctx context.Context, id int, in UpdateVehicleInput) (*domain.VehicleView, error) {
	fields := map[string]any{}
	if in.Placa != nil {
		placa := normalize.Plate(*in.Placa)
		if placa == "" {
			return nil, ErrMissingFields
		}
		fields["plate"] = placa
	}
	if in.Notas != nil {
		fields["notes"] = strings.TrimSpace(*in.Notas)
	}
	if len(fields) == 0 {
		return nil, ErrMissingFields
	}

	err := repo.UpdateVehicle(ctx, s.DB, id, fields)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrVehicleNotFound
	case errors.Is(err, repo.ErrDuplicate):
		return nil, ErrDuplicatePlate
	default:
		return nil, err
	}
	return repo.GetVehicleView(ctx, s.DB, id)
}
