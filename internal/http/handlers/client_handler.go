// Client HTTP handlers.
//
// This file exposes REST endpoints for client resources:
//   - GET  /clientes            (list, optional search + limit)
//   - GET  /clientes/search     (typeahead, min 2 chars, top 10)
//   - GET  /clientes/{id}       (fetch)
//   - POST /clientes            (create)
//   - PUT  /clientes/{id}       (update)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate sentinel errors into the HTTP taxonomy with user-facing
// Spanish messages.
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

// ClientService defines client lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ClientService interface {
	// List returns clients filtered by an optional term, capped to limit rows.
	List(ctx context.Context, search string, limit int) ([]domain.Client, error)
	// Get fetches one client by id.
	Get(ctx context.Context, id int) (*domain.Client, error)
	// Create registers a new client; name and phone are mandatory.
	Create(ctx context.Context, in services.ClientInput) (*domain.Client, error)
	// Update overwrites a client's contact fields.
	Update(ctx context.Context, id int, in services.ClientInput) (*domain.Client, error)
	// Search is the typeahead lookup (min 2 chars, top 10).
	Search(ctx context.Context, q string) ([]domain.Client, error)
}

// ListClients godoc
// @ID          listClients
// @Summary     List clients
// @Description Returns clients, optionally filtered by a free-text term over name, phone, and email.
// @Tags        Clientes
// @Produce     json
//
// @Param       search  query  string  false "Filter term"
// @Param       limit   query  int     false "Max rows returned"  minimum(1)
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /clientes [get]
func (h *Handlers) ListClients(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	items, err := h.clientSvc.List(c.Request.Context(), c.Query("search"), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// SearchClients godoc
// @ID          searchClients
// @Summary     Typeahead client search
// @Description Returns up to 10 clients matching the term over name, phone, and email. The term must have at least 2 characters.
// @Tags        Clientes
// @Produce     json
//
// @Param       q  query  string  true  "Search term (min 2 chars)"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Term too short"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /clientes/search [get]
func (h *Handlers) SearchClients(c *gin.Context) {
	items, err := h.clientSvc.Search(c.Request.Context(), c.Query("q"))
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

// GetClient godoc
// @ID          getClient
// @Summary     Fetch a client
// @Tags        Clientes
// @Produce     json
//
// @Param       id  path  int  true  "Client ID"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /clientes/{id} [get]
func (h *Handlers) GetClient(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	client, err := h.clientSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Cliente no encontrado")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, client)
}

// CreateClient godoc
// @ID          createClient
// @Summary     Register a client
// @Description Creates a client. Name and phone are mandatory.
// @Tags        Clientes
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.ClientInput  true  "Client payload"
//
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /clientes [post]
func (h *Handlers) CreateClient(c *gin.Context) {
	var in services.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	client, err := h.clientSvc.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Nombre y teléfono son campos obligatorios")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	okMsg(c, http.StatusCreated, client, "Cliente creado exitosamente")
}

// UpdateClient godoc
// @ID          updateClient
// @Summary     Update a client
// @Tags        Clientes
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                   true  "Client ID"
// @Param       body  body  services.ClientInput  true  "Client payload"
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /clientes/{id} [put]
func (h *Handlers) UpdateClient(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "El id debe ser un entero positivo")
		return
	}
	var in services.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Cuerpo JSON inválido")
		return
	}
	client, err := h.clientSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Nombre y teléfono son campos obligatorios")
		case errors.Is(err, services.ErrClientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Cliente no encontrado")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	okMsg(c, http.StatusOK, client, "Cliente actualizado exitosamente")
}
