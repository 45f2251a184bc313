// Vehicle HTTP handlers.
//
// This file exposes REST endpoints for vehicle resources and the brand/model
// catalog:
//   - GET  /vehiculos                       (list, optional clienteId + search)
//   - GET  /vehiculos/cliente/{clienteId}   (owner's vehicles)
//   - GET  /vehiculos/marcas                (brand catalog)
//   - GET  /vehiculos/modelos               (model catalog)
//   - GET  /vehiculos/{id}                  (fetch)
//   - POST /vehiculos                       (register; find-or-create brand/model)
//   - PUT  /vehiculos/{id}                  (partial update: plate, notes)
//
// Brand and model names in the create payload are free text: the catalog
// service resolves them to ids, creating catalog rows on first sight.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/services"
	"github.com/tallerix/taller-backend/internal/utils"
)

// VehicleService defines vehicle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type VehicleService interface {
	// List returns vehicle views filtered by owner and/or free-text term.
	List(ctx context.Context, clientID int, search string) ([]domain.VehicleView, error)
	// ListByClient returns the vehicles owned by a client.
	ListByClient(ctx context.Context, clientID int) ([]domain.VehicleView, error)
	// Get fetches one vehicle view by id.
	Get(ctx context.Context, id int) (*domain.VehicleView, error)
	// Create registers a vehicle, resolving brand/model names to catalog ids.
	Create(ctx context.Context, in services.CreateVehicleInput) (*domain.VehicleView, error)
	// Update applies a partial update (plate and/or notes).
	Update(ctx context.Context, id int, in services.UpdateVehicleInput) (*domain.VehicleView, error)
}

// CatalogService exposes the brand/model catalog reads used by handlers.
type CatalogService interface {
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	ListModels(ctx context.Context) ([]domain.Model, error)
}

// ListVehicles godoc
// @ID          listVehicles
// @Summary     List vehicles
// @Description Returns vehicles joined with brand, model, and owner names; optionally filtered by owner and/or a free-text term.
// @Tags        Vehiculos
// @Produce     json
//
// @Param       clienteId  query  int     false "Owner client ID"
// @Param       search     query  string  false "Filter term over plate, brand, model, owner"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /vehiculos [get]
func (h *Handlers) ListVehicles(c *gin.Context) {
	clientID := utils.AtoiDefault(c.Query("clienteId"), 0)
	items, err := h.vehicleSvc.List(c.Request.Context(), clientID, c.Query("search"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListClientVehicles godoc
// @ID          listClientVehicles
// @Summary     List a client's vehicles
// @Tags        Vehiculos
// @Produce     json
//
// @Param       clienteId  path  int  true  "Owner client ID"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /vehiculos/cliente/{clienteId} [get]
func (h *Handlers) ListClientVehicles(c *gin.Context) {
	clientID := idParam(c, "clienteId")
	if clientID == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	items, err := h.vehicleSvc.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Cliente no encontrado")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetVehicle godoc
// @ID          getVehicle
// @Summary     Fetch a vehicle
// @Tags        Vehiculos
// @Produce     json
//
// @Param       id  path  int  true  "Vehicle ID"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Vehicle not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /vehiculos/{id} [get]
func (h *Handlers) GetVehicle(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	v, err := h.vehicleSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrVehicleNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Vehículo no encontrado")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, v)
}

// CreateVehicle godoc
// @ID          createVehicle
// @Summary     Register a vehicle
// @Description Registers a vehicle for an existing client. Brand and model are free text and are resolved against the catalog, creating entries on first sight.
// @Tags        Vehiculos
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.CreateVehicleInput  true  "Vehicle payload"
//
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Plate already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /vehiculos [post]
func (h *Handlers) CreateVehicle(c *gin.Context) {
	var in services.CreateVehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	v, err := h.vehicleSvc.Create(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Marca, modelo, placa y cliente son campos obligatorios")
		case errors.Is(err, services.ErrClientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Cliente no encontrado")
		case errors.Is(err, services.ErrDuplicatePlate):
			fail(c, http.StatusConflict, ErrCodeConflict, "Ya existe un vehículo con esa placa")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	okMsg(c, http.StatusCreated, v, "Vehículo registrado exitosamente")
}

// UpdateVehicle godoc
// @ID          updateVehicle
// @Summary     Update a vehicle
// @Description Partially updates a vehicle: plate and/or notes. Absent fields are left untouched.
// @Tags        Vehiculos
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                          true  "Vehicle ID"
// @Param       body  body  services.UpdateVehicleInput  true  "Fields to update"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Vehicle not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Plate already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /vehiculos/{id} [put]
func (h *Handlers) UpdateVehicle(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	var in services.UpdateVehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	v, err := h.vehicleSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Debe incluir al menos un campo a actualizar")
		case errors.Is(err, services.ErrVehicleNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Vehículo no encontrado")
		case errors.Is(err, services.ErrDuplicatePlate):
			fail(c, http.StatusConflict, ErrCodeConflict, "Ya existe un vehículo con esa placa")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	okMsg(c, http.StatusOK, v, "Vehículo actualizado exitosamente")
}

// ListBrands godoc
// @ID          listBrands
// @Summary     List vehicle brands
// @Tags        Vehiculos
// @Produce     json
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /vehiculos/marcas [get]
func (h *Handlers) ListBrands(c *gin.Context) {
	items, err := h.catalogSvc.ListBrands(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListModels godoc
// @ID          listModels
// @Summary     List vehicle models
// @Tags        Vehiculos
// @Produce     json
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /vehiculos/modelos [get]
func (h *Handlers) ListModels(c *gin.Context) {
	items, err := h.catalogSvc.ListModels(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}
