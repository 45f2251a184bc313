package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

// CurrentUser picks the acting agent for write operations: the first
// mechanic, falling back to the first admin, falling back to any user.
// The legacy deployment runs without per-request authentication, so the
// agent recorded on a case is whoever the shop configured first.
func CurrentUser(ctx context.Context, db *gorm.DB) (*domain.User, error) {
	for _, t := range []string{domain.UserTypeMechanic, domain.UserTypeAdmin} {
		var u domain.User
		err := db.WithContext(ctx).
			Where("type = ?", t).
			Order("iduser ASC").
			First(&u).Error
		if err == nil {
			return &u, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	var u domain.User
	if err := db.WithContext(ctx).Order("iduser ASC").First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users, mechanics first, then by id.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("CASE WHEN type = 'MECHANIC' THEN 0 ELSE 1 END, iduser ASC").
		Find(&out).Error
	return out, err
}

// ListMechanics returns only the users of type MECHANIC, by id.
func ListMechanics(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Where("type = ?", domain.UserTypeMechanic).
		Order("iduser ASC").
		Find(&out).Error
	return out, err
}
