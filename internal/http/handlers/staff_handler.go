// Staff HTTP handlers.
//
// This file exposes the user lookups the operator UI needs:
//   - GET /mecanicos          (users of type MECHANIC)
//   - GET /auth/current-user  (acting user: first mechanic, else first admin, else any)
//   - GET /auth/users         (all users, mechanics first)
//   - GET /auth/mechanics     (alias of /mecanicos under the auth prefix)
//
// There is no authentication: the "current user" is resolved from the users
// table with a fixed preference order.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/services"
)

// StaffService defines the user lookups consumed by HTTP handlers.
type StaffService interface {
	// Current resolves the acting user (MECHANIC, then ADMIN, then any).
	Current(ctx context.Context) (*domain.User, error)
	// Users returns all users, mechanics first.
	Users(ctx context.Context) ([]domain.User, error)
	// Mechanics returns the users of type MECHANIC.
	Mechanics(ctx context.Context) ([]domain.User, error)
}

// CurrentUser godoc
// @ID          currentUser
// @Summary     Resolve the acting user
// @Description Returns the first mechanic, falling back to the first admin and then to any user.
// @Tags        Auth
// @Produce     json
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     404  {object}  handlers.ErrorResponse  "No users configured"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/current-user [get]
func (h *Handlers) CurrentUser(c *gin.Context) {
	u, err := h.staffSvc.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoUsers) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "No hay usuarios configurados")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, u)
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Returns all users ordered mechanics first.
// @Tags        Auth
// @Produce     json
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	items, err := h.staffSvc.Users(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListMechanics godoc
// @ID          listMechanics
// @Summary     List mechanics
// @Tags        Mecanicos
// @Produce     json
//
// @Success     200  {object}  handlers.DataResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /mecanicos [get]
func (h *Handlers) ListMechanics(c *gin.Context) {
	items, err := h.staffSvc.Mechanics(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}
