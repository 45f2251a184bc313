// Package services – ClientService
//
// CRUD and search over shop customers. Input strings are trimmed before
// persistence; the two-character search minimum mirrors what the operator UI
// autocomplete sends.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tallerix/taller-backend/internal/domain"
	"github.com/tallerix/taller-backend/internal/normalize"
	"github.com/tallerix/taller-backend/internal/repo"
)

// searchTop caps autocomplete search results.
const searchTop = 10

// ClientService provides client CRUD and search operations.
type ClientService struct {
	DB *gorm.DB
}

// NewClientService constructs a ClientService.
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{DB: db}
}

// ClientInput is the payload for creating or updating a client.
type ClientInput struct {
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Email     string `json:"email"`
}

// List returns clients, optionally filtered by a free-text term over name,
// phone, and email, optionally capped to limit rows.
func (s *ClientService) List(ctx context.Context, search string, limit int) ([]domain.Client, error) {
	return repo.ListClients(ctx, s.DB, strings.TrimSpace(search), limit)
}

// Get returns a client by id, or ErrClientNotFound.
func (s *ClientService) Get(ctx context.Context, id int) (*domain.Client, error) {
	c, err := repo.GetClient(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrClientNotFound
	}
	return c, err
}

// Create inserts a new client. Name and phone are mandatory.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*domain.Client, error) {
	nombre := strings.TrimSpace(in.Nombre)
	telefono := normalize.Phone(in.Telefono)
	if nombre == "" || telefono == "" {
		return nil, ErrMissingFields
	}
	c := &domain.Client{
		FullName: nombre,
		Phone:    telefono,
		Address:  strings.TrimSpace(in.Direccion),
		Email:    strings.TrimSpace(in.Email),
	}
	if err := repo.CreateClient(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update overwrites a client's fields. Returns ErrClientNotFound when the id
// does not exist.
func (s *ClientService) Update(ctx context.Context, id int, in ClientInput) (*domain.Client, error) {
	nombre := strings.TrimSpace(in.Nombre)
	telefono := normalize.Phone(in.Telefono)
	if nombre == "" || telefono == "" {
		return nil, ErrMissingFields
	}
	err := repo.UpdateClient(ctx, s.DB, id, &domain.Client{
		FullName: nombre,
		Phone:    telefono,
		Address:  strings.TrimSpace(in.Direccion),
		Email:    strings.TrimSpace(in.Email),
	})
	if err == repo.ErrNotFound {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return repo.GetClient(ctx, s.DB, id)
}

// Search returns up to ten clients matching q over name, phone, and email.
// Terms shorter than two characters are rejected.
func (s *ClientService) Search(ctx context.Context, q string) ([]domain.Client, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < 2 {
		return nil, ErrSearchTooShort
	}
	return repo.SearchClients(ctx, s.DB, q, searchTop)
}
