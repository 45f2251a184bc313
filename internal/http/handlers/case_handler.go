// Case ("ingreso") HTTP handlers.
//
// This file exposes REST endpoints for shop-visit cases:
//   - GET  /ingresos               (list, paginated, optional clienteId + search)
//   - GET  /ingresos/estadisticas  (totals + top service types)
//   - GET  /ingresos/{id}          (fetch with service line items)
//   - POST /ingresos               (open a case with its service order)
//   - PUT  /ingresos/{id}          (description only)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// case creation exists for (caller, key), the handler returns that recorded
// case and sets `Idempotency-Replayed: true`.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/http/middleware"
	"github.com/tallerix/taller-backend/internal/repo"
	"github.com/tallerix/taller-backend/internal/services"
	"github.com/tallerix/taller-backend/internal/utils"
)

// Idempotency scopes for the two POSTs that accept Idempotency-Key. The
// router wires the same strings into the validation middleware.
const (
	IdemScopeCases          = "ingresos"
	IdemScopeDiagnosticBill = "diagnostico/crear-factura"
)

// idempotencyTTL bounds how long a completed POST can be replayed.
const idempotencyTTL = 24 * time.Hour

// CaseService defines case lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CaseService interface {
	// ListPage returns a page of case views plus the total count.
	ListPage(ctx context.Context, clientID int, search string, page, pageSize int) ([]domain.CaseView, int64, error)
	// Get fetches one case with its service line items.
	Get(ctx context.Context, id int) (*domain.CaseView, error)
	// Create opens a case and attaches its service order atomically.
	Create(ctx context.Context, in services.CreateCaseInput) (*domain.CaseView, error)
	// UpdateDescription replaces the case description.
	UpdateDescription(ctx context.Context, id int, descripcion string) (*domain.CaseView, error)
	// Stats aggregates case counts and the most used service types.
	Stats(ctx context.Context) (*domain.CaseStats, []domain.ServiceTypeUsage, error)
}

//
// DTOs
//

// ListCasesResponse wraps a page of cases and pagination information.
type ListCasesResponse struct {
	Ingresos   []domain.CaseView `json:"ingresos"`
	Pagination Pagination        `json:"pagination"`
}

// UpdateCaseRequest is the JSON payload for updating a case description.
type UpdateCaseRequest struct {
	// Descripcion is the new case description (non-empty).
	Descripcion string `json:"descripcion" binding:"required,min=1" example:"Cambio de aceite y revisión de frenos"`
}

// CaseStatsResponse bundles the aggregate counters with the most requested
// service types.
type CaseStatsResponse struct {
	*domain.CaseStats
	ServiciosTop []domain.ServiceTypeUsage `json:"serviciosTop"`
}

// ListCases godoc
// @ID          listCases
// @Summary     List cases (paginated)
// @Description Returns a page of cases joined with vehicle, client, and agent display fields.
// @Tags        Ingresos
// @Produce     json
//
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       limit      query  int     false "Items per page"   minimum(1) maximum(100) default(20)
// @Param       clienteId  query  int     false "Owner client ID"
// @Param       search     query  string  false "Filter term over client, plate, description"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingresos [get]
func (h *Handlers) ListCases(c *gin.Context) {
	page, pageSize := clampPagination(c)
	clientID := utils.AtoiDefault(c.Query("clienteId"), 0)

	items, total, err := h.caseSvc.ListPage(c.Request.Context(), clientID, c.Query("search"), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListCasesResponse{
		Ingresos: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// CaseStats godoc
// @ID          caseStats
// @Summary     Case statistics
// @Description Returns total cases, how many have a bill attached, and the most requested service types.
// @Tags        Ingresos
// @Produce     json
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingresos/estadisticas [get]
func (h *Handlers) CaseStats(c *gin.Context) {
	stats, top, err := h.caseSvc.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if top == nil {
		top = []domain.ServiceTypeUsage{}
	}
	ok(c, http.StatusOK, CaseStatsResponse{CaseStats: stats, ServiciosTop: top})
}

// GetCase godoc
// @ID          getCase
// @Summary     Fetch a case
// @Description Returns one case with its service line items.
// @Tags        Ingresos
// @Produce     json
//
// @Param       id  path  int  true  "Case ID"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Case not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingresos/{id} [get]
func (h *Handlers) GetCase(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	cv, err := h.caseSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCaseNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Ingreso no encontrado")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, cv)
}

// CreateCase godoc
// @ID          createCase
// @Summary     Open a case
// @Description Opens a case for a client's vehicle and attaches its service order atomically. Every service-type id must exist; the first unknown id aborts the whole request with no rows written.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Ingresos
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    services.CreateCaseInput  true  "Case payload"
//
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client or vehicle not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingresos [post]
func (h *Handlers) CreateCase(c *gin.Context) {
	ctx := c.Request.Context()

	var in services.CreateCaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}

	caller := callerIdentity(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.caseSvc.(*services.CaseService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, caller, IdemScopeCases, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := h.caseSvc.Get(ctx, rec.RecordID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	cv, err := h.caseSvc.Create(ctx, in)
	if err != nil {
		var unknown *services.UnknownServiceTypesError
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cliente, vehículo y descripción de servicios son obligatorios")
		case errors.Is(err, services.ErrNoServices):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Debe incluir al menos un servicio")
		case errors.As(err, &unknown):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Uno o más servicios no existen")
		case errors.Is(err, services.ErrClientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Cliente no encontrado")
		case errors.Is(err, services.ErrVehicleNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Vehículo no encontrado")
		case errors.Is(err, services.ErrVehicleClientMismatch):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El vehículo no pertenece al cliente especificado")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.caseSvc.(*services.CaseService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, caller, IdemScopeCases, idemKey, cv.ID, http.StatusCreated, idempotencyTTL)
		}
	}

	okMsg(c, http.StatusCreated, cv, "Ingreso registrado exitosamente")
}

// UpdateCase godoc
// @ID          updateCase
// @Summary     Update a case description
// @Tags        Ingresos
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                        true  "Case ID"
// @Param       body  body  handlers.UpdateCaseRequest true  "New description"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Case not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingresos/{id} [put]
func (h *Handlers) UpdateCase(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Descripcion) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "La descripción es obligatoria")
		return
	}
	cv, err := h.caseSvc.UpdateDescription(c.Request.Context(), id, req.Descripcion)
	if err != nil {
		if errors.Is(err, services.ErrCaseNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Ingreso no encontrado")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	okMsg(c, http.StatusOK, cv, "Ingreso actualizado exitosamente")
}
