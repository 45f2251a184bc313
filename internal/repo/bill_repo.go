package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

// billViewSelect projects bills joined with client display fields. Vehicle
// columns come from the case the bill was issued for, when there is one.
const billViewSelect = `
	bl.idbills         AS id,
	bl.amaunt          AS amount,
	bl."paymentMethod" AS payment_method,
	bl."creationDate"  AS creation_date,
	bl.status          AS status,
	cl.fullname        AS client_name,
	cl.nit             AS client_phone,
	v.plate            AS plate,
	b.name             AS brand,
	m.name             AS model`

func billViewQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Table("bills bl").
		Select(billViewSelect).
		Joins("LEFT JOIN clients cl ON bl.id_client = cl.idclients").
		Joins("LEFT JOIN cases c ON c.id_bill = bl.idbills").
		Joins("LEFT JOIN vehicles v ON c.id_vehicle = v.idvehicles").
		Joins("LEFT JOIN brands b ON v.id_brand = b.idbrands").
		Joins("LEFT JOIN models m ON v.id_model = m.idmodels")
}

// ListOpenBillsByClient returns a client's bills with a positive balance,
// newest first. The legacy data treats amaunt > 0 as "pending".
func ListOpenBillsByClient(ctx context.Context, db *gorm.DB, clientID int) ([]domain.BillView, error) {
	var out []domain.BillView
	err := billViewQuery(ctx, db).
		Where("bl.id_client = ? AND bl.amaunt > 0", clientID).
		Order("bl.idbills DESC").
		Scan(&out).Error
	return out, err
}

// CountOpenBillsByClient counts a client's bills with a positive balance.
func CountOpenBillsByClient(ctx context.Context, db *gorm.DB, clientID int) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Bill{}).
		Where("id_client = ? AND amaunt > 0", clientID).
		Count(&n).Error
	return n, err
}

// GetBillView fetches a single joined bill by id, or ErrNotFound.
func GetBillView(ctx context.Context, db *gorm.DB, id int) (*domain.BillView, error) {
	var bv domain.BillView
	err := billViewQuery(ctx, db).Where("bl.idbills = ?", id).Scan(&bv).Error
	if err != nil {
		return nil, err
	}
	if bv.ID == 0 {
		return nil, ErrNotFound
	}
	return &bv, nil
}

// CreateBill inserts a bill and returns it with the assigned id. Callers run
// it inside the same transaction that links the bill to its case.
func CreateBill(ctx context.Context, db *gorm.DB, b *domain.Bill) error {
	return db.WithContext(ctx).Create(b).Error
}
