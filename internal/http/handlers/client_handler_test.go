package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/services"
)

func clientRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.GET("/clientes", h.ListClients)
	r.GET("/clientes/search", h.SearchClients)
	r.GET("/clientes/:id", h.GetClient)
	r.POST("/clientes", h.CreateClient)
	r.PUT("/clientes/:id", h.UpdateClient)
	return r
}

func TestListClients_PassesFilters(t *testing.T) {
	h := newStubHandlers()
	var gotSearch string
	var gotLimit int
	h.clientSvc = stubClientSvc{
		list: func(_ context.Context, q string, limit int) ([]domain.Client, error) {
			gotSearch, gotLimit = q, limit
			return []domain.Client{{ID: 1, FullName: "Ana Pérez"}}, nil
		},
	}
	w := perform(clientRouter(h), http.MethodGet, "/clientes?search=ana&limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotSearch != "ana" || gotLimit != 5 {
		t.Fatalf("filters = %q/%d", gotSearch, gotLimit)
	}
	body := decodeEnvelope(t, w)
	items, _ := body["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 client in data, got %v", body)
	}
}

func TestSearchClients_TooShort(t *testing.T) {
	h := newStubHandlers()
	h.clientSvc = stubClientSvc{
		search: func(context.Context, string) ([]domain.Client, error) {
			return nil, services.ErrSearchTooShort
		},
	}
	w := perform(clientRouter(h), http.MethodGet, "/clientes/search?q=a", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["code"] != ErrCodeBadRequest {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestGetClient_NotFoundAndBadID(t *testing.T) {
	h := newStubHandlers()
	h.clientSvc = stubClientSvc{
		get: func(context.Context, int) (*domain.Client, error) {
			return nil, services.ErrClientNotFound
		},
	}
	r := clientRouter(h)

	w := perform(r, http.MethodGet, "/clientes/99", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing client -> %d", w.Code)
	}
	if body := decodeEnvelope(t, w); body["message"] != "Cliente no encontrado" {
		t.Fatalf("unexpected message: %v", body)
	}

	w = perform(r, http.MethodGet, "/clientes/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id -> %d", w.Code)
	}
}

func TestCreateClient_SuccessAndMissingFields(t *testing.T) {
	h := newStubHandlers()
	r := clientRouter(h)

	w := perform(r, http.MethodPost, "/clientes", map[string]any{
		"nombre": "Ana Pérez", "telefono": "555-0001",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d: %s", w.Code, w.Body.String())
	}
	body := decodeEnvelope(t, w)
	if body["message"] != "Cliente creado exitosamente" {
		t.Fatalf("unexpected message: %v", body)
	}
	data, _ := body["data"].(map[string]any)
	if data["nombre"] != "Ana Pérez" {
		t.Fatalf("unexpected data: %v", data)
	}

	h.clientSvc = stubClientSvc{
		create: func(context.Context, services.ClientInput) (*domain.Client, error) {
			return nil, services.ErrMissingFields
		},
	}
	w = perform(clientRouter(h), http.MethodPost, "/clientes", map[string]any{"nombre": "Ana"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing phone -> %d", w.Code)
	}
	if body := decodeEnvelope(t, w); body["message"] != "Nombre y teléfono son campos obligatorios" {
		t.Fatalf("unexpected message: %v", body)
	}
}

func TestUpdateClient_NotFoundAndInternal(t *testing.T) {
	h := newStubHandlers()
	h.clientSvc = stubClientSvc{
		update: func(context.Context, int, services.ClientInput) (*domain.Client, error) {
			return nil, services.ErrClientNotFound
		},
	}
	w := perform(clientRouter(h), http.MethodPut, "/clientes/7", map[string]any{
		"nombre": "Ana", "telefono": "555-0001",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing client -> %d", w.Code)
	}

	h.clientSvc = stubClientSvc{
		update: func(context.Context, int, services.ClientInput) (*domain.Client, error) {
			return nil, errors.New("boom")
		},
	}
	w = perform(clientRouter(h), http.MethodPut, "/clientes/7", map[string]any{
		"nombre": "Ana", "telefono": "555-0001",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("internal -> %d", w.Code)
	}
	if body := decodeEnvelope(t, w); body["code"] != ErrCodeUpdateFailed {
		t.Fatalf("unexpected body: %v", body)
	}
}
