// Package repo implements the data persistence layer for the workshop
// entities, backed by GORM. This file provides repository functions for the
// Client model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a client is not found by id, functions return ErrNotFound.
//   - Lookups by natural key (phone/NIT) return (nil, nil) on no match,
//     because absence is a normal outcome for the intake workflow.
//   - On other DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

// ListClients returns clients ordered by full name, optionally filtered by a
// substring match on name, phone/NIT, or email, capped at limit rows.
func ListClients(ctx context.Context, db *gorm.DB, search string, limit int) ([]domain.Client, error) {
	q := db.WithContext(ctx).Model(&domain.Client{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("fullname LIKE ? OR nit LIKE ? OR contact LIKE ?", like, like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Client
	err := q.Order("fullname").Find(&out).Error
	return out, err
}

// GetClient fetches a single client by id, or ErrNotFound.
func GetClient(ctx context.Context, db *gorm.DB, id int) (*domain.Client, error) {
	var c domain.Client
	if err := db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindClientByPhone resolves a client by the phone/NIT natural key.
// Returns (nil, nil) when no client matches.
func FindClientByPhone(ctx context.Context, db *gorm.DB, phone string) (*domain.Client, error) {
	var c domain.Client
	err := db.WithContext(ctx).Where("nit = ?", phone).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ClientExists reports whether a client with the given id exists.
func ClientExists(ctx context.Context, db *gorm.DB, id int) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Client{}).Where("idclients = ?", id).Count(&n).Error
	return n > 0, err
}

// CreateClient inserts a new client row and returns it with the assigned id.
func CreateClient(ctx context.Context, db *gorm.DB, c *domain.Client) error {
	return db.WithContext(ctx).Create(c).Error
}

// UpdateClient overwrites the mutable fields of the client identified by id.
// Returns ErrNotFound when no row was affected.
func UpdateClient(ctx context.Context, db *gorm.DB, id int, c *domain.Client) error {
	res := db.WithContext(ctx).Model(&domain.Client{}).
		Where("idclients = ?", id).
		Updates(map[string]any{
			"fullname": c.FullName,
			"nit":      c.Phone,
			"address":  c.Address,
			"contact":  c.Email,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchClients returns at most top clients whose name, phone/NIT, or email
// contains q, ordered by full name.
func SearchClients(ctx context.Context, db *gorm.DB, q string, top int) ([]domain.Client, error) {
	like := "%" + q + "%"
	var out []domain.Client
	err := db.WithContext(ctx).
		Where("fullname LIKE ? OR nit LIKE ? OR contact LIKE ?", like, like, like).
		Order("fullname").
		Limit(top).
		Find(&out).Error
	return out, err
}
