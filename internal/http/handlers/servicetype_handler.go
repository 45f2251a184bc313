// Service-type catalog HTTP handlers.
//
// This file exposes REST endpoints for the service-type catalog:
//   - GET    /servicios            (list, optional search)
//   - GET    /servicios/search     (typeahead, min 2 chars, top 10)
//   - GET    /servicios/populares  (ranked by real usage in case line items)
//   - GET    /servicios/{id}       (fetch)
//   - POST   /servicios            (create)
//   - PUT    /servicios/{id}       (update)
//   - DELETE /servicios/{id}       (delete; 409 when referenced by cases)
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

// ServiceTypeService defines catalog operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ServiceTypeService interface {
	// List returns service types filtered by an optional term.
	List(ctx context.Context, search string) ([]domain.ServiceType, error)
	// Get fetches one service type by id.
	Get(ctx context.Context, id int) (*domain.ServiceType, error)
	// Create adds a service type; the name must be unique (casefolded).
	Create(ctx context.Context, in services.ServiceTypeInput) (*domain.ServiceType, error)
	// Update overwrites a service type's fields.
	Update(ctx context.Context, id int, in services.ServiceTypeInput) (*domain.ServiceType, error)
	// Delete removes a service type unless case line items reference it.
	Delete(ctx context.Context, id int) error
	// Search is the typeahead lookup (min 2 chars, top 10).
	Search(ctx context.Context, q string) ([]domain.ServiceType, error)
	// Popular ranks service types by how many case line items use them.
	Popular(ctx context.Context, limit int) ([]domain.ServiceTypeUsage, error)
}

// ListServiceTypes godoc
// @ID          listServiceTypes
// @Summary     List service types
// @Tags        Servicios
// @Produce     json
//
// @Param       search  query  string  false "Filter term over name and description"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /servicios [get]
func (h *Handlers) ListServiceTypes(c *gin.Context) {
	items, err := h.typeSvc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// SearchServiceTypes godoc
// @ID          searchServiceTypes
// @Summary     Typeahead service-type search
// @Tags        Servicios
// @Produce     json
//
// @Param       q  query  string  true  "Search term (min 2 chars)"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Term too short"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /servicios/search [get]
func (h *Handlers) SearchServiceTypes(c *gin.Context) {
	items, err := h.typeSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, services.ErrSearchTooShort) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El término de búsqueda debe tener al menos 2 caracteres")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// PopularServiceTypes godoc
// @ID          popularServiceTypes
// @Summary     Most requested service types
// @Description Ranks service types by how many case line items reference them.
// @Tags        Servicios
// @Produce     json
//
// @Param       limit  query  int  false "Max rows returned"  minimum(1) default(10)
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /servicios/populares [get]
func (h *Handlers) PopularServiceTypes(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	items, err := h.typeSvc.Popular(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetServiceType godoc
// @ID          getServiceType
// @Summary     Fetch a service type
// @Tags        Servicios
// @Produce     json
//
// @Param       id  path  int  true  "Service type ID"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Service type not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /servicios/{id} [get]
func (h *Handlers) GetServiceType(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	st, err := h.typeSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrServiceTypeNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Servicio no encontrado")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// CreateServiceType godoc
// @ID          createServiceType
// @Summary     Create a service type
// @Tags        Servicios
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.ServiceTypeInput  true  "Service type payload"
//
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Name already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /servicios [post]
func (h *Handlers) CreateServiceType(c *gin.Context) {
	var in services.ServiceTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	st, err := h.typeSvc.Create(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El nombre del servicio es obligatorio")
		case errors.Is(err, services.ErrInvalidPrice):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El precio no puede ser negativo")
		case errors.Is(err, services.ErrDuplicateName):
			fail(c, http.StatusConflict, ErrCodeConflict, "Ya existe un servicio con ese nombre")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	okMsg(c, http.StatusCreated, st, "Servicio creado exitosamente")
}

// UpdateServiceType godoc
// @ID          updateServiceType
// @Summary     Update a service type
// @Tags        Servicios
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                        true  "Service type ID"
// @Param       body  body  services.ServiceTypeInput  true  "Service type payload"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Service type not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Name already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /servicios/{id} [put]
func (h *Handlers) UpdateServiceType(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	var in services.ServiceTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	st, err := h.typeSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El nombre del servicio es obligatorio")
		case errors.Is(err, services.ErrInvalidPrice):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El precio no puede ser negativo")
		case errors.Is(err, services.ErrServiceTypeNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Servicio no encontrado")
		case errors.Is(err, services.ErrDuplicateName):
			fail(c, http.StatusConflict, ErrCodeConflict, "Ya existe un servicio con ese nombre")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	okMsg(c, http.StatusOK, st, "Servicio actualizado exitosamente")
}

// DeleteServiceType godoc
// @ID          deleteServiceType
// @Summary     Delete a service type
// @Description Deletes a service type. Fails with 409 when case line items still reference it.
// @Tags        Servicios
// @Produce     json
//
// @Param       id  path  int  true  "Service type ID"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Service type not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Referenced by cases"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /servicios/{id} [delete]
func (h *Handlers) DeleteServiceType(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	if err := h.typeSvc.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrServiceTypeInUse):
			fail(c, http.StatusConflict, ErrCodeRefViolation, "No se puede eliminar el servicio porque está siendo utilizado en uno o más ingresos")
		case errors.Is(err, services.ErrServiceTypeNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Servicio no encontrado")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		}
		return
	}
	okMsg(c, http.StatusOK, nil, "Servicio eliminado exitosamente")
}
