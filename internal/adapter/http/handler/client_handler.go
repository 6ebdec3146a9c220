package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// ClientService defines the behavior needed by ClientHandler.
type ClientService interface {
	CreateClient(ctx context.Context, input usecase.CreateClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	GetClientByIdentification(ctx context.Context, identification string) (*domain.Client, error)
	ListClients(ctx context.Context, active *bool) ([]*domain.Client, error)
	UpdateClient(ctx context.Context, input usecase.UpdateClientInput) (*domain.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

// ClientHandler handles client-related HTTP requests.
type ClientHandler struct {
	clientUC ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC ClientService) *ClientHandler {
	return &ClientHandler{clientUC: clientUC}
}

// Create registers a client.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientUC.CreateClient(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClientFromDomain(client))
}

// Get retrieves a client by ID.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	client, err := h.clientUC.GetClient(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// GetByIdentification retrieves a client by identification.
func (h *ClientHandler) GetByIdentification(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientUC.GetClientByIdentification(r.Context(), chi.URLParam(r, "identification"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// List lists clients, optionally filtered by ?active=.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := parseBoolQuery(r, "active")
	if err != nil {
		respondError(w, r, err)
		return
	}

	clients, err := h.clientUC.ListClients(r.Context(), active)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientsFromDomain(clients))
}

// Update applies the provided fields to a client.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req dto.UpdateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientUC.UpdateClient(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// Delete removes a client.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.clientUC.DeleteClient(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
