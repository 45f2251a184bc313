// Package repo implements the data persistence layer for the workshop
// entities, backed by GORM. This file provides repository functions for the
// Vehicle model, including the joined VehicleView projections the API serves.
//
// Plates are matched case-insensitively over trimmed values; callers pass
// normalize.Plate output. CreateVehicle maps a plate unique-index violation
// to ErrDuplicate, which is the authoritative uniqueness signal (the service
// layer's pre-check only exists to give a friendlier message without burning
// an insert).
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

// vehicleViewSelect is the shared projection for VehicleView scans.
const vehicleViewSelect = `
	v.idvehicles AS id,
	v.id_brand   AS brand_id,
	b.name       AS brand,
	v.id_model   AS model_id,
	m.name       AS model,
	v.plate      AS plate,
	v.notes      AS notes,
	v.id_client  AS client_id,
	c.fullname   AS client_name`

// vehicleViewQuery builds the base joined query for vehicle projections.
func vehicleViewQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Table("vehicles v").
		Select(vehicleViewSelect).
		Joins("LEFT JOIN brands b ON v.id_brand = b.idbrands").
		Joins("LEFT JOIN models m ON v.id_model = m.idmodels").
		Joins("LEFT JOIN clients c ON v.id_client = c.idclients")
}

// ListVehicleViews returns joined vehicle rows, optionally scoped to a client
// and/or filtered by a substring match on brand, model, or plate. Results are
// ordered by brand then model name.
func ListVehicleViews(ctx context.Context, db *gorm.DB, clientID int, search string) ([]domain.VehicleView, error) {
	q := vehicleViewQuery(ctx, db)
	if clientID > 0 {
		q = q.Where("v.id_client = ?", clientID)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("b.name LIKE ? OR m.name LIKE ? OR v.plate LIKE ?", like, like, like)
	}
	var out []domain.VehicleView
	err := q.Order("b.name, m.name").Scan(&out).Error
	return out, err
}

// GetVehicleView fetches a single joined vehicle row by id, or ErrNotFound.
func GetVehicleView(ctx context.Context, db *gorm.DB, id int) (*domain.VehicleView, error) {
	var v domain.VehicleView
	err := vehicleViewQuery(ctx, db).Where("v.idvehicles = ?", id).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, ErrNotFound
	}
	return &v, nil
}

// FindVehicleViewByPlate resolves a vehicle by plate, case-insensitively over
// trimmed values. Returns (nil, nil) when no vehicle matches.
func FindVehicleViewByPlate(ctx context.Context, db *gorm.DB, plate string) (*domain.VehicleView, error) {
	var v domain.VehicleView
	err := vehicleViewQuery(ctx, db).
		Where("UPPER(TRIM(v.plate)) = ?", plate).
		Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	return &v, nil
}

// PlateExists reports whether any vehicle already carries the given
// normalized plate.
func PlateExists(ctx context.Context, db *gorm.DB, plate string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Vehicle{}).
		Where("UPPER(TRIM(plate)) = ?", plate).
		Count(&n).Error
	return n > 0, err
}

// VehicleBelongsToClient reports whether the vehicle exists and is owned by
// the given client. The intake and case flows gate every write on this check.
func VehicleBelongsToClient(ctx context.Context, db *gorm.DB, vehicleID, clientID int) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Vehicle{}).
		Where("idvehicles = ? AND id_client = ?", vehicleID, clientID).
		Count(&n).Error
	return n > 0, err
}

// CreateVehicle inserts a vehicle row. A plate unique-index violation is
// returned as ErrDuplicate.
func CreateVehicle(ctx context.Context, db *gorm.DB, v *domain.Vehicle) error {
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateVehicle applies a partial update (plate and/or notes) to the vehicle
// identified by id. Fields holds legacy column names. Returns ErrNotFound
// when the vehicle does not exist and ErrDuplicate when a plate change
// collides with an existing vehicle.
func UpdateVehicle(ctx context.Context, db *gorm.DB, id int, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Vehicle{}).Where("idvehicles = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	res := db.WithContext(ctx).Model(&domain.Vehicle{}).Where("idvehicles = ?", id).Updates(fields)
	if res.Error != nil {
		if isDuplicateErr(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	return nil
}

// GetVehicle fetches the raw vehicle row by id, or ErrNotFound.
func GetVehicle(ctx context.Context, db *gorm.DB, id int) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
