// Package services – CatalogService
//
// This file implements the brand/model entity resolver. Vehicle creation and
// intake registration take free-text brand and model names from the operator
// UI; the resolver canonicalizes them (trim + casefold) and finds the existing
// catalog row or creates one with a generated description.
//
// Concurrency: the insert relies on the store's unique name index. When two
// requests race on the same new name, the loser's insert fails with a
// duplicate error and the resolver re-reads the winner's row, so both callers
// end up with the same id and no gaps or duplicate names appear.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/normalize"
	"github.com/tallerix/taller-backend/internal/repo"
)

// CatalogService resolves brand and model names against the catalog tables.
type CatalogService struct {
	DB *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// ListBrands returns the full brand catalog ordered by name.
func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return repo.ListBrands(ctx, s.DB)
}

// ListModels returns the full model catalog ordered by name.
func (s *CatalogService) ListModels(ctx context.Context) ([]domain.Model, error) {
	return repo.ListModels(ctx, s.DB)
}

// ResolveBrand returns the id of the brand with the given name, creating the
// catalog row on first use. Resolution is case-insensitive and idempotent.
func (s *CatalogService) ResolveBrand(ctx context.Context, name string) (int, error) {
	canonical := normalize.Name(name)
	if canonical == "" {
		return 0, ErrMissingFields
	}

	if b, err := repo.FindBrandByName(ctx, s.DB, canonical); err != nil {
		return 0, err
	} else if b != nil {
		return b.ID, nil
	}

	b := &domain.Brand{
		Name:        canonical,
		Description: fmt.Sprintf("Vehículos %s", normalize.DisplayName(name)),
	}
	err := repo.CreateBrand(ctx, s.DB, b)
	if err == nil {
		return b.ID, nil
	}
	if !errors.Is(err, repo.ErrDuplicate) {
		return 0, err
	}

	// Lost the insert race: the winner's row exists now.
	win, err := repo.FindBrandByName(ctx, s.DB, canonical)
	if err != nil {
		return 0, err
	}
	if win == nil {
		return 0, repo.ErrNotFound
	}
	return win.ID, nil
}

// ResolveModel returns the id of the model with the given name, creating the
// catalog row on first use. Models are a flat catalog, unrelated to brands.
func (s *CatalogService) ResolveModel(ctx context.Context, name string) (int, error) {
	canonical := normalize.Name(name)
	if canonical == "" {
		return 0, ErrMissingFields
	}

	if m, err := repo.FindModelByName(ctx, s.DB, canonical); err != nil {
		return 0, err
	} else if m != nil {
		return m.ID, nil
	}

	m := &domain.Model{
		Name:        canonical,
		Description: fmt.Sprintf("Modelo %s", normalize.DisplayName(name)),
	}
	err := repo.CreateModel(ctx, s.DB, m)
	if err == nil {
		return m.ID, nil
	}
	if !errors.Is(err, repo.ErrDuplicate) {
		return 0, err
	}

	win, err := repo.FindModelByName(ctx, s.DB, canonical)
	if err != nil {
		return 0, err
	}
	if win == nil {
		return 0, repo.ErrNotFound
	}
	return win.ID, nil
}
