// Handler wiring.
//
// Handlers groups the HTTP endpoints of the workshop API and depends on
// abstract service interfaces (declared next to the endpoints that consume
// them) so transport concerns stay separate from business logic. Each
// resource lives in its own file:
//
//   - client_handler.go       /clientes
//   - vehicle_handler.go      /vehiculos (+ /vehiculos/marcas, /modelos)
//   - servicetype_handler.go  /servicios
//   - case_handler.go         /ingresos
//   - intake_handler.go       /diagnostico
//   - staff_handler.go        /mecanicos, /auth
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tallerix/taller-backend/internal/utils"
)

// Handlers groups HTTP endpoints for clients, vehicles, the service catalog,
// cases, the diagnostic intake workflow, and staff lookups.
type Handlers struct {
	clientSvc  ClientService
	vehicleSvc VehicleService
	catalogSvc CatalogService
	typeSvc    ServiceTypeService
	caseSvc    CaseService
	intakeSvc  IntakeService
	staffSvc   StaffService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(
	clientSvc ClientService,
	vehicleSvc VehicleService,
	catalogSvc CatalogService,
	typeSvc ServiceTypeService,
	caseSvc CaseService,
	intakeSvc IntakeService,
	staffSvc StaffService,
) *Handlers {
	return &Handlers{
		clientSvc:  clientSvc,
		vehicleSvc: vehicleSvc,
		catalogSvc: catalogSvc,
		typeSvc:    typeSvc,
		caseSvc:    caseSvc,
		intakeSvc:  intakeSvc,
		staffSvc:   staffSvc,
	}
}

// callerIdentity scopes idempotency records per caller. The API carries no
// authentication, so the client IP is the identity; must stay in sync with
// the idempotency middleware.
func callerIdentity(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// idParam parses a positive integer path parameter; 0 means invalid.
func idParam(c *gin.Context, name string) int {
	id := utils.AtoiDefault(c.Param(name), 0)
	if id < 0 {
		return 0
	}
	return id
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and limit query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("limit"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
