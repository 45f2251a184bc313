// Diagnostic intake HTTP handlers.
//
// This file exposes the backend operations behind the 4-stage intake
// workflow (search → verify → register → bill); the stage state itself lives
// in the operator UI session:
//   - POST /diagnostico/verificar-cliente   (lookup by phone and/or plate)
//   - POST /diagnostico/registrar-cliente   (create missing client/vehicle atomically)
//   - POST /diagnostico/crear-factura       (issue diagnostic bill + case)
//
// Idempotency:
// crear-factura accepts an Idempotency-Key header; a retried request whose
// key matches a previously completed one returns the recorded bill and sets
// `Idempotency-Replayed: true` instead of billing twice.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/http/middleware"
	"github.com/tallerix/taller-backend/internal/repo"
	"github.com/tallerix/taller-backend/internal/services"
)

// IntakeService defines the diagnostic workflow operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IntakeService interface {
	// Verify looks up a returning customer by phone and/or plate.
	Verify(ctx context.Context, phone, plate string) (*services.VerificationResult, error)
	// Register creates the missing client and/or vehicle in one transaction.
	Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
	// CreateDiagnosticBill issues the bill with its diagnostic case atomically.
	CreateDiagnosticBill(ctx context.Context, in services.BillInput) (*domain.BillView, error)
}

// VerifyClientRequest is the JSON payload for the verification stage. At
// least one of the two fields must be present.
type VerifyClientRequest struct {
	Telefono string `json:"telefono" example:"555-0001"`
	Placa    string `json:"placa" example:"ABC123"`
}

// VerifyClient godoc
// @ID          verifyClient
// @Summary     Verify a returning customer
// @Description Looks up a client by phone and a vehicle by plate. When only the plate matches, the vehicle's owner is used as the resolved client. Pending bills (positive balance) are attached whenever a client resolves.
// @Tags        Diagnostico
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.VerifyClientRequest  true  "Phone and/or plate"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Neither phone nor plate supplied"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /diagnostico/verificar-cliente [post]
func (h *Handlers) VerifyClient(c *gin.Context) {
	var req VerifyClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	res, err := h.intakeSvc.Verify(c.Request.Context(), req.Telefono, req.Placa)
	if err != nil {
		if errors.Is(err, services.ErrMissingSearchInput) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Debe proporcionar un teléfono o una placa")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, res)
}

// RegisterClient godoc
// @ID          registerClient
// @Summary     Register a client and vehicle
// @Description Registration stage of the intake workflow: creates the missing client (or reuses clienteId) and the vehicle in one transaction, rolled back entirely on any step failure.
// @Tags        Diagnostico
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.RegisterInput  true  "Registration payload"
//
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Plate already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /diagnostico/registrar-cliente [post]
func (h *Handlers) RegisterClient(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	res, err := h.intakeSvc.Register(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Nombre y teléfono del cliente y marca, modelo y placa del vehículo son obligatorios")
		case errors.Is(err, services.ErrClientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Cliente no encontrado")
		case errors.Is(err, services.ErrDuplicatePlate):
			fail(c, http.StatusConflict, ErrCodeConflict, "Ya existe un vehículo con esa placa")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	okMsg(c, http.StatusCreated, res, "Cliente y vehículo registrados exitosamente")
}

// CreateDiagnosticBill godoc
// @ID          createDiagnosticBill
// @Summary     Issue a diagnostic bill
// @Description Billing stage of the intake workflow: validates that the vehicle belongs to the client and that the acting user is a mechanic, then inserts the bill and its diagnostic case with one service order in a single transaction. Returns the bill merged with vehicle display fields.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Diagnostico
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    services.BillInput  true  "Billing payload"
//
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client, vehicle, or service type not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /diagnostico/crear-factura [post]
func (h *Handlers) CreateDiagnosticBill(c *gin.Context) {
	ctx := c.Request.Context()

	var in services.BillInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}

	caller := callerIdentity(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.intakeSvc.(*services.IntakeService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, caller, IdemScopeDiagnosticBill, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetBillView(ctx, svc.DB, rec.RecordID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	bill, err := h.intakeSvc.CreateDiagnosticBill(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cliente, vehículo y monto son obligatorios")
		case errors.Is(err, services.ErrInvalidAmount):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El monto del diagnóstico debe ser mayor a cero")
		case errors.Is(err, services.ErrVehicleClientMismatch):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El vehículo no pertenece al cliente especificado")
		case errors.Is(err, services.ErrNotAMechanic):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El usuario especificado no es un mecánico")
		case errors.Is(err, services.ErrClientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Cliente no encontrado")
		case errors.Is(err, services.ErrVehicleNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Vehículo no encontrado")
		case errors.Is(err, services.ErrServiceTypeNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Servicio no encontrado")
		case errors.Is(err, services.ErrNoUsers):
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "No hay usuarios configurados")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.intakeSvc.(*services.IntakeService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, caller, IdemScopeDiagnosticBill, idemKey, bill.ID, http.StatusCreated, idempotencyTTL)
		}
	}

	okMsg(c, http.StatusCreated, bill, "Factura creada exitosamente")
}
