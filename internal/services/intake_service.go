// Package services – IntakeService
//
// This file implements the diagnostic intake workflow: verifying a returning
// customer by phone and/or plate, registering a new client/vehicle pair, and
// issuing the diagnostic bill with its service order. The workflow state
// machine itself lives in the operator UI; the backend exposes the three
// operations the stages call.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the client/vehicle identifiers involved.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/normalize"
	"github.com/tallerix/taller-backend/internal/repo"
)

const (
	// defaultPaymentMethod is assumed when the intake UI sends none.
	defaultPaymentMethod = "EFECTIVO"

	// defaultDiagnosticDescription labels the case opened for a diagnostic.
	defaultDiagnosticDescription = "Diagnóstico de vehículo"

	// billStatusOpen marks a freshly issued, unpaid bill.
	billStatusOpen = 1
)

// IntakeService orchestrates the diagnostic intake workflow.
type IntakeService struct {
	DB      *gorm.DB
	Catalog *CatalogService
}

// NewIntakeService constructs an IntakeService.
func NewIntakeService(db *gorm.DB, catalog *CatalogService) *IntakeService {
	return &IntakeService{DB: db, Catalog: catalog}
}

// VerificationResult is the outcome of looking up a returning customer.
type VerificationResult struct {
	ClientFound       bool                `json:"clienteExiste"`
	VehicleFound      bool                `json:"vehiculoExiste"`
	Client            *domain.Client      `json:"cliente"`
	Vehicle           *domain.VehicleView `json:"vehiculo"`
	PendingBills      []domain.BillView   `json:"facturasPendientes"`
	NeedsRegistration bool                `json:"requiereRegistro"`
}

// RegisterInput is the payload for registering a walk-in client with their
// vehicle. ClienteID short-circuits client creation when the client already
// exists and only the vehicle is new.
type RegisterInput struct {
	ClienteID *int   `json:"clienteId"`
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Email     string `json:"email"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Placa     string `json:"placa"`
	Notas     string `json:"notas"`
}

// RegisterResult bundles the client and vehicle the registration produced.
type RegisterResult struct {
	Client  *domain.Client      `json:"cliente"`
	Vehicle *domain.VehicleView `json:"vehiculo"`
}

// BillInput is the payload for issuing a diagnostic bill.
type BillInput struct {
	ClienteID      int             `json:"clienteId"`
	VehiculoID     int             `json:"vehiculoId"`
	Monto          decimal.Decimal `json:"montoDiagnostico"`
	MetodoPago     string          `json:"metodoPago"`
	MecanicoID     int             `json:"mecanicoId"`
	TipoServicioID int             `json:"tipoServicioId"`
	Descripcion    string          `json:"descripcion"`
}

// Verify looks up a returning customer by phone and/or plate. At least one
// input is required. When only the plate matches, the vehicle's owner wins
// for client identity. Pending bills (positive balance) are attached whenever
// a client was identified. Absence of either record is reported, not an
// error.
func (s *IntakeService) Verify(ctx context.Context, phone, plate string) (*VerificationResult, error) {
	tr := otel.Tracer("services/IntakeService")
	ctx, span := tr.Start(ctx, "Verify",
		trace.WithAttributes(
			attribute.Bool("intake.has_phone", strings.TrimSpace(phone) != ""),
			attribute.Bool("intake.has_plate", strings.TrimSpace(plate) != ""),
		),
	)
	defer span.End()

	phone = normalize.Phone(phone)
	plate = normalize.Plate(plate)
	if phone == "" && plate == "" {
		return nil, ErrMissingSearchInput
	}

	res := &VerificationResult{PendingBills: []domain.BillView{}}

	if phone != "" {
		c, err := repo.FindClientByPhone(ctx, s.DB, phone)
		if err != nil {
			return nil, err
		}
		res.Client = c
	}

	if plate != "" {
		v, err := repo.FindVehicleViewByPlate(ctx, s.DB, plate)
		if err != nil {
			return nil, err
		}
		res.Vehicle = v
		// The vehicle's owner wins for client identity when the phone
		// lookup missed.
		if res.Client == nil && v != nil && v.ClientID > 0 {
			owner, err := repo.GetClient(ctx, s.DB, v.ClientID)
			if err != nil && err != repo.ErrNotFound {
				return nil, err
			}
			res.Client = owner
		}
	}

	res.ClientFound = res.Client != nil
	res.VehicleFound = res.Vehicle != nil
	res.NeedsRegistration = !res.ClientFound || !res.VehicleFound

	if res.Client != nil {
		bills, err := repo.ListOpenBillsByClient(ctx, s.DB, res.Client.ID)
		if err != nil {
			return nil, err
		}
		res.PendingBills = bills
		span.SetAttributes(
			attribute.Int("intake.client_id", res.Client.ID),
			attribute.Int("intake.pending_bills", len(bills)),
		)
	}
	return res, nil
}

// Register creates the missing client and/or vehicle for a walk-in customer
// in a single transaction: either both records exist afterwards or neither
// does. Brand and model names go through the catalog resolver.
func (s *IntakeService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	tr := otel.Tracer("services/IntakeService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	placa := normalize.Plate(in.Placa)
	if placa == "" || strings.TrimSpace(in.Marca) == "" || strings.TrimSpace(in.Modelo) == "" {
		return nil, ErrMissingFields
	}
	if in.ClienteID == nil && (strings.TrimSpace(in.Nombre) == "" || normalize.Phone(in.Telefono) == "") {
		return nil, ErrMissingFields
	}

	// Catalog resolution commits independently: losing a resolver race must
	// not poison the registration transaction.
	brandID, err := s.Catalog.ResolveBrand(ctx, in.Marca)
	if err != nil {
		return nil, err
	}
	modelID, err := s.Catalog.ResolveModel(ctx, in.Modelo)
	if err != nil {
		return nil, err
	}

	var (
		client  *domain.Client
		vehicle domain.Vehicle
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ClienteID != nil {
			c, err := repo.GetClient(ctx, tx, *in.ClienteID)
			if err != nil {
				if err == repo.ErrNotFound {
					return ErrClientNotFound
				}
				return err
			}
			client = c
		} else {
			client = &domain.Client{
				FullName: strings.TrimSpace(in.Nombre),
				Phone:    normalize.Phone(in.Telefono),
				Address:  strings.TrimSpace(in.Direccion),
				Email:    strings.TrimSpace(in.Email),
			}
			if err := repo.CreateClient(ctx, tx, client); err != nil {
				return err
			}
		}

		vehicle = domain.Vehicle{
			BrandID:  brandID,
			ModelID:  modelID,
			Plate:    placa,
			ClientID: client.ID,
			Notes:    strings.TrimSpace(in.Notas),
		}
		if err := repo.CreateVehicle(ctx, tx, &vehicle); err != nil {
			if err == repo.ErrDuplicate {
				return ErrDuplicatePlate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("intake.client_id", client.ID),
		attribute.Int("intake.vehicle_id", vehicle.ID),
	)
	view, err := repo.GetVehicleView(ctx, s.DB, vehicle.ID)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{Client: client, Vehicle: view}, nil
}

// CreateDiagnosticBill validates the stage-four payload and, in one
// transaction, inserts the bill plus the diagnostic case with its service
// order line. Nothing is written when validation fails. The returned view
// merges the bill with the diagnosed vehicle's display fields.
func (s *IntakeService) CreateDiagnosticBill(ctx context.Context, in BillInput) (*domain.BillView, error) {
	tr := otel.Tracer("services/IntakeService")
	ctx, span := tr.Start(ctx, "CreateDiagnosticBill",
		trace.WithAttributes(
			attribute.Int("intake.client_id", in.ClienteID),
			attribute.Int("intake.vehicle_id", in.VehiculoID),
		),
	)
	defer span.End()

	if in.ClienteID <= 0 || in.VehiculoID <= 0 {
		return nil, ErrMissingFields
	}
	if !in.Monto.IsPositive() {
		return nil, ErrInvalidAmount
	}

	belongs, err := repo.VehicleBelongsToClient(ctx, s.DB, in.VehiculoID, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, ErrVehicleClientMismatch
	}

	agent, err := s.resolveMechanic(ctx, in.MecanicoID)
	if err != nil {
		return nil, err
	}

	serviceTypeID := in.TipoServicioID
	if serviceTypeID > 0 {
		exists, err := repo.ServiceTypeExists(ctx, s.DB, serviceTypeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrServiceTypeNotFound
		}
	}

	metodo := strings.TrimSpace(in.MetodoPago)
	if metodo == "" {
		metodo = defaultPaymentMethod
	}
	descripcion := strings.TrimSpace(in.Descripcion)
	if descripcion == "" {
		descripcion = defaultDiagnosticDescription
	}

	var bill domain.Bill
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bill = domain.Bill{
			ClientID:      in.ClienteID,
			Amount:        in.Monto,
			PaymentMethod: metodo,
			CreationDate:  time.Now().UTC(),
			Status:        billStatusOpen,
		}
		if err := repo.CreateBill(ctx, tx, &bill); err != nil {
			return err
		}

		diag := domain.Case{
			VehicleID:   in.VehiculoID,
			AgentID:     agent.ID,
			BillID:      &bill.ID,
			Description: descripcion,
		}
		if err := repo.CreateCase(ctx, tx, &diag); err != nil {
			return err
		}
		if serviceTypeID > 0 {
			return repo.CreateService(ctx, tx, &domain.Service{
				CaseID:        diag.ID,
				ServiceTypeID: serviceTypeID,
				Technician:    agent.DisplayName,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("intake.bill_id", bill.ID))
	return repo.GetBillView(ctx, s.DB, bill.ID)
}

// resolveMechanic returns the acting mechanic: the requested user when it is
// a mechanic, otherwise the configured fallback agent.
func (s *IntakeService) resolveMechanic(ctx context.Context, mechanicID int) (*domain.User, error) {
	if mechanicID > 0 {
		var u domain.User
		err := s.DB.WithContext(ctx).First(&u, mechanicID).Error
		if err == nil {
			if u.Type != domain.UserTypeMechanic {
				return nil, ErrNotAMechanic
			}
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
