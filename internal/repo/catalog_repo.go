// Package repo implements the data persistence layer for the workshop
// entities, backed by GORM. This file covers the brand/model catalog used by
// the entity resolver.
//
// Name matching is case-insensitive over trimmed names. Lookups return
// (nil, nil) on no match so the resolver can branch into its create path;
// create functions map unique-index violations to ErrDuplicate so the
// resolver can re-read the winning row after a lost race.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/normalize"
)

// ListBrands returns the full brand catalog ordered by name.
func ListBrands(ctx context.Context, db *gorm.DB) ([]domain.Brand, error) {
	var out []domain.Brand
	err := db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

// ListModels returns the full model catalog ordered by name.
func ListModels(ctx context.Context, db *gorm.DB) ([]domain.Model, error) {
	var out []domain.Model
	err := db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

// FindBrandByName looks a brand up by canonical name. (nil, nil) on no match.
func FindBrandByName(ctx context.Context, db *gorm.DB, name string) (*domain.Brand, error) {
	var b domain.Brand
	err := db.WithContext(ctx).
		Where("LOWER(TRIM(name)) = ?", normalize.Name(name)).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindModelByName looks a model up by canonical name. (nil, nil) on no match.
func FindModelByName(ctx context.Context, db *gorm.DB, name string) (*domain.Model, error) {
	var m domain.Model
	err := db.WithContext(ctx).
		Where("LOWER(TRIM(name)) = ?", normalize.Name(name)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateBrand inserts a brand, returning ErrDuplicate when the unique name
// index rejects it.
func CreateBrand(ctx context.Context, db *gorm.DB, b *domain.Brand) error {
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// CreateModel inserts a model, returning ErrDuplicate when the unique name
// index rejects it.
func CreateModel(ctx context.Context, db *gorm.DB, m *domain.Model) error {
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
