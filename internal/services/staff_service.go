// Package services – StaffService
//
// Read-only access to the shop's users table. There is no per-request
// authentication; Current picks the acting user the way the original
// deployment did (first mechanic, then first admin, then anyone).
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/repo"
)

// StaffService exposes shop users and mechanics.
type StaffService struct {
	DB *gorm.DB
}

// NewStaffService constructs a StaffService.
func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{DB: db}
}

// Current returns the acting user, or ErrNoUsers when the table is empty.
func (s *StaffService) Current(ctx context.Context) (*domain.User, error) {
	u, err := repo.CurrentUser(ctx, s.DB)
	if err == repo.ErrNotFound {
		return nil, ErrNoUsers
	}
	return u, err
}

// Users returns all users, mechanics first.
func (s *StaffService) Users(ctx context.Context) ([]domain.User, error) {
	return repo.ListUsers(ctx, s.DB)
}

// Mechanics returns only the users of type MECHANIC.
func (s *StaffService) Mechanics(ctx context.Context) ([]domain.User, error) {
	return repo.ListMechanics(ctx, s.DB)
}
