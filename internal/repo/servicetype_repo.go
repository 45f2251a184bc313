// Package repo implements the data persistence layer for the workshop
// entities, backed by GORM. This file covers the service-type catalog,
// including the usage ranking behind the "populares" endpoint and the
// referential check that guards catalog deletes.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

// ListServiceTypes returns catalog entries ordered by name, optionally
// filtered by a substring match on name or description.
func ListServiceTypes(ctx context.Context, db *gorm.DB, search string) ([]domain.ServiceType, error) {
	q := db.WithContext(ctx).Model(&domain.ServiceType{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	var out []domain.ServiceType
	err := q.Order("name").Find(&out).Error
	return out, err
}

// GetServiceType fetches one catalog entry by id, or ErrNotFound.
func GetServiceType(ctx context.Context, db *gorm.DB, id int) (*domain.ServiceType, error) {
	var st domain.ServiceType
	if err := db.WithContext(ctx).First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ServiceTypeExists reports whether a catalog entry with the given id exists.
func ServiceTypeExists(ctx context.Context, db *gorm.DB, id int) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.ServiceType{}).
		Where("idserviceTypes = ?", id).
		Count(&n).Error
	return n > 0, err
}

// MissingServiceTypes returns, in input order, the ids from the given set
// that do not exist in the catalog. Used to validate case line items before
// any write happens.
func MissingServiceTypes(ctx context.Context, db *gorm.DB, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int
	err := db.WithContext(ctx).Model(&domain.ServiceType{}).
		Where("idserviceTypes IN ?", ids).
		Pluck("idserviceTypes", &found).Error
	if err != nil {
		return nil, err
	}
	set := make(map[int]struct{}, len(found))
	for _, id := range found {
		set[id] = struct{}{}
	}
	var missing []int
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CreateServiceType inserts a catalog entry, returning ErrDuplicate when the
// unique name index rejects it.
func CreateServiceType(ctx context.Context, db *gorm.DB, st *domain.ServiceType) error {
	if err := db.WithContext(ctx).Create(st).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateServiceType overwrites the mutable fields of a catalog entry.
// Returns ErrNotFound when the entry does not exist and ErrDuplicate on a
// name collision.
func UpdateServiceType(ctx context.Context, db *gorm.DB, id int, st *domain.ServiceType) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.ServiceType{}).Where("idserviceTypes = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	res := db.WithContext(ctx).Model(&domain.ServiceType{}).
		Where("idserviceTypes = ?", id).
		Updates(map[string]any{
			"name":        st.Name,
			"description": st.Description,
			"price":       st.Price,
			"notes":       st.Notes,
		})
	if res.Error != nil {
		if isDuplicateErr(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	return nil
}

// ServiceTypeInUse reports whether any case line item references the catalog
// entry. Deletes are refused while this holds.
func ServiceTypeInUse(ctx context.Context, db *gorm.DB, id int) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Service{}).
		Where("id_serviceType = ?", id).
		Count(&n).Error
	return n > 0, err
}

// DeleteServiceType removes a catalog entry. Returns ErrNotFound when no row
// was affected.
func DeleteServiceType(ctx context.Context, db *gorm.DB, id int) error {
	res := db.WithContext(ctx).Delete(&domain.ServiceType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PopularServiceTypes ranks catalog entries by how many case line items
// reference them, most used first, ties broken by name.
func PopularServiceTypes(ctx context.Context, db *gorm.DB, limit int) ([]domain.ServiceTypeUsage, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []domain.ServiceTypeUsage
	err := db.WithContext(ctx).
		Table(`serviceTypes st`).
		Select(`st.idserviceTypes AS id,
			st.name        AS name,
			st.description AS description,
			st.price       AS price,
			COUNT(s.idservices) AS usage_count`).
		Joins(`LEFT JOIN services s ON s.id_serviceType = st.idserviceTypes`).
		Group("st.idserviceTypes, st.name, st.description, st.price").
		Order("usage_count DESC, st.name").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
