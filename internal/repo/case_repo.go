// Package repo implements the data persistence layer for the workshop
// entities, backed by GORM. This file covers cases ("ingresos") and their
// service line items: joined CaseView projections, paginated listing,
// creation, description updates, and the aggregate statistics endpoint.
//
// Creation functions accept the caller's *gorm.DB handle so the case service
// can run case + line items inside one transaction.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
)

// caseViewSelect is the shared projection for CaseView scans.
const caseViewSelect = `
	c.idcases       AS id,
	c.id_vehicle    AS vehicle_id,
	c.id_agent      AS agent_id,
	c.id_bill       AS bill_id,
	c.description   AS description,
	v.plate         AS plate,
	b.name          AS brand,
	m.name          AS model,
	cl.idclients    AS client_id,
	cl.fullname     AS client_name,
	cl.nit          AS client_phone,
	u.username      AS agent_name`

// caseViewQuery builds the base joined query for case projections.
func caseViewQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Table("cases c").
		Select(caseViewSelect).
		Joins("LEFT JOIN vehicles v ON c.id_vehicle = v.idvehicles").
		Joins("LEFT JOIN brands b ON v.id_brand = b.idbrands").
		Joins("LEFT JOIN models m ON v.id_model = m.idmodels").
		Joins("LEFT JOIN clients cl ON v.id_client = cl.idclients").
		Joins("LEFT JOIN users u ON c.id_agent = u.iduser")
}

// caseFilters applies the shared list filters to a case query.
func caseFilters(q *gorm.DB, clientID int, search string) *gorm.DB {
	if clientID > 0 {
		q = q.Where("v.id_client = ?", clientID)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("cl.fullname LIKE ? OR v.plate LIKE ? OR c.description LIKE ?", like, like, like)
	}
	return q
}

// CountCaseViews returns the number of cases matching the list filters.
func CountCaseViews(ctx context.Context, db *gorm.DB, clientID int, search string) (int64, error) {
	q := db.WithContext(ctx).
		Table("cases c").
		Joins("LEFT JOIN vehicles v ON c.id_vehicle = v.idvehicles").
		Joins("LEFT JOIN clients cl ON v.id_client = cl.idclients")
	q = caseFilters(q, clientID, search)
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListCaseViews returns a page of joined case rows, newest first.
func ListCaseViews(ctx context.Context, db *gorm.DB, clientID int, search string, offset, limit int) ([]domain.CaseView, error) {
	q := caseFilters(caseViewQuery(ctx, db), clientID, search).
		Order("c.idcases DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var out []domain.CaseView
	err := q.Scan(&out).Error
	return out, err
}

// GetCaseView fetches a single joined case row by id, or ErrNotFound.
// Line items are loaded separately via ListCaseServices.
func GetCaseView(ctx context.Context, db *gorm.DB, id int) (*domain.CaseView, error) {
	var cv domain.CaseView
	err := caseViewQuery(ctx, db).Where("c.idcases = ?", id).Scan(&cv).Error
	if err != nil {
		return nil, err
	}
	if cv.ID == 0 {
		return nil, ErrNotFound
	}
	return &cv, nil
}

// ListCaseServices returns the line items of a case joined with their
// service-type names.
func ListCaseServices(ctx context.Context, db *gorm.DB, caseID int) ([]domain.ServiceView, error) {
	var out []domain.ServiceView
	err := db.WithContext(ctx).
		Table("services s").
		Select(`s.idservices   AS id,
			st.name        AS name,
			st.description AS description,
			s.driven       AS technician`).
		Joins(`LEFT JOIN "serviceTypes" st ON s.id_serviceType = st.idserviceTypes`).
		Where("s.id_case = ?", caseID).
		Scan(&out).Error
	return out, err
}

// CreateCase inserts a case row and returns it with the assigned id.
func CreateCase(ctx context.Context, db *gorm.DB, c *domain.Case) error {
	return db.WithContext(ctx).Create(c).Error
}

// CreateService inserts one case line item.
func CreateService(ctx context.Context, db *gorm.DB, s *domain.Service) error {
	return db.WithContext(ctx).Create(s).Error
}

// CaseExists reports whether a case with the given id exists.
func CaseExists(ctx context.Context, db *gorm.DB, id int) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Case{}).Where("idcases = ?", id).Count(&n).Error
	return n > 0, err
}

// UpdateCaseDescription changes a case's description, the only mutable field
// a case has. Returns ErrNotFound when the case does not exist.
func UpdateCaseDescription(ctx context.Context, db *gorm.DB, id int, description string) error {
	exists, err := CaseExists(ctx, db, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return db.WithContext(ctx).Model(&domain.Case{}).
		Where("idcases = ?", id).
		Update("description", description).Error
}

// SetCaseBill links a case to the bill produced for it.
func SetCaseBill(ctx context.Context, db *gorm.DB, caseID, billID int) error {
	return db.WithContext(ctx).Model(&domain.Case{}).
		Where("idcases = ?", caseID).
		Update("id_bill", billID).Error
}

// GetCaseStats returns the aggregate counts behind the estadisticas endpoint.
func GetCaseStats(ctx context.Context, db *gorm.DB) (*domain.CaseStats, error) {
	var s domain.CaseStats
	m := db.WithContext(ctx).Model(&domain.Case{})
	if err := m.Count(&s.TotalCases).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.Case{}).
		Where("id_bill IS NOT NULL").Count(&s.BilledCases).Error; err != nil {
		return nil, err
	}
	s.UnbilledCases = s.TotalCases - s.BilledCases
	return &s, nil
}
