// Package services – CaseService
//
// Shop-visit records ("ingresos"). Creation validates the vehicle/client pair
// and every referenced service type up front, then writes the case and its
// line items atomically: a payload naming one unknown service type leaves
// zero rows behind.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/repo"
)

// defaultCaseDescription labels walk-in cases created without one.
const defaultCaseDescription = "Ingreso de vehículo al taller"

// CaseService provides case listing, creation, and statistics.
type CaseService struct {
	DB *gorm.DB
}

// NewCaseService constructs a CaseService.
func NewCaseService(db *gorm.DB) *CaseService {
	return &CaseService{DB: db}
}

// CreateCaseInput is the payload for registering a shop visit. Servicios
// holds service-type ids; Agente optionally names the attending technician
// (matched against username/displayname, falling back to the configured
// current user).
type CreateCaseInput struct {
	ClienteID   int    `json:"clienteId"`
	VehiculoID  int    `json:"vehiculoId"`
	Descripcion string `json:"descripcion"`
	Servicios   []int  `json:"servicios"`
	Agente      string `json:"agente"`
	UsuarioID   int    `json:"usuarioId"`
}

// ListPage returns a page of case views plus the total count. Filters match
// the list endpoint: owner id and a term over client name, plate, and
// description.
func (s *CaseService) ListPage(ctx context.Context, clientID int, search string, page, pageSize int) ([]domain.CaseView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	search = strings.TrimSpace(search)
	total, err := repo.CountCaseViews(ctx, s.DB, clientID, search)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.CaseView{}, 0, nil
	}
	items, err := repo.ListCaseViews(ctx, s.DB, clientID, search, offset, pageSize)
	return items, total, err
}

// Get returns a case with its service line items, or ErrCaseNotFound.
func (s *CaseService) Get(ctx context.Context, id int) (*domain.CaseView, error) {
	cv, err := repo.GetCaseView(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}
	servicios, err := repo.ListCaseServices(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	cv.Servicios = servicios
	return cv, nil
}

// Create registers a shop visit: one case row plus one line item per service
// type, written in a single transaction. The vehicle must belong to the
// client and every service-type id must exist; the first unknown id aborts
// with no writes.
func (s *CaseService) Create(ctx context.Context, in CreateCaseInput) (*domain.CaseView, error) {
	tr := otel.Tracer("services/CaseService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int("case.client_id", in.ClienteID),
			attribute.Int("case.vehicle_id", in.VehiculoID),
			attribute.Int("case.services", len(in.Servicios)),
		),
	)
	defer span.End()

	if in.ClienteID <= 0 || in.VehiculoID <= 0 {
		return nil, ErrMissingFields
	}
	if len(in.Servicios) == 0 {
		return nil, ErrNoServices
	}

	belongs, err := repo.VehicleBelongsToClient(ctx, s.DB, in.VehiculoID, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, ErrVehicleClientMismatch
	}

	missing, err := repo.MissingServiceTypes(ctx, s.DB, in.Servicios)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &UnknownServiceTypesError{IDs: missing}
	}

	agent, err := s.resolveAgent(ctx, in.UsuarioID, in.Agente)
	if err != nil {
		return nil, err
	}
	tecnico := strings.TrimSpace(in.Agente)
	if tecnico == "" {
		tecnico = agent.DisplayName
	}

	descripcion := strings.TrimSpace(in.Descripcion)
	if descripcion == "" {
		descripcion = defaultCaseDescription
	}

	var created domain.Case
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created = domain.Case{
			VehicleID:   in.VehiculoID,
			AgentID:     agent.ID,
			Description: descripcion,
		}
		if err := repo.CreateCase(ctx, tx, &created); err != nil {
			return err
		}
		for _, stID := range in.Servicios {
			item := domain.Service{
				CaseID:        created.ID,
				ServiceTypeID: stID,
				Technician:    tecnico,
			}
			if err := repo.CreateService(ctx, tx, &item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("case.id", created.ID))
	return s.Get(ctx, created.ID)
}

// UpdateDescription changes a case's description, its only mutable field.
func (s *CaseService) UpdateDescription(ctx context.Context, id int, descripcion string) (*domain.CaseView, error) {
	descripcion = strings.TrimSpace(descripcion)
	if descripcion == "" {
		return nil, ErrMissingFields
	}
	if err := repo.UpdateCaseDescription(ctx, s.DB, id, descripcion); err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Stats returns aggregate case counts plus the most used service types.
func (s *CaseService) Stats(ctx context.Context) (*domain.CaseStats, []domain.ServiceTypeUsage, error) {
	stats, err := repo.GetCaseStats(ctx, s.DB)
	if err != nil {
		return nil, nil, err
	}
	top, err := repo.PopularServiceTypes(ctx, s.DB, 5)
	if err != nil {
		return nil, nil, err
	}
	return stats, top, nil
}

// resolveAgent picks the case agent: an explicit user id wins, then a
// username/displayname match, then the configured current user.
func (s *CaseService) resolveAgent(ctx context.Context, userID int, name string) (*domain.User, error) {
	if userID > 0 {
		var u domain.User
		err := s.DB.WithContext(ctx).First(&u, userID).Error
		if err == nil {
			return &u, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if name = strings.TrimSpace(name); name != "" {
		var u domain.User
		err := s.DB.WithContext(ctx).
			Where("displayname = ? OR username = ?", name, name).
			First(&u).Error
		if err == nil {
			return &u, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	u, err := repo.CurrentUser(ctx, s.DB)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrNoUsers
		}
		return nil, err
	}
	return u, nil
}
