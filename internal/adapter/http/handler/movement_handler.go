package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// MovementService defines the behavior needed by MovementHandler.
type MovementService interface {
	CreateMovement(ctx context.Context, input usecase.CreateMovementInput) (*domain.Movement, error)
	GetMovement(ctx context.Context, id int64) (*domain.Movement, error)
	ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error)
	UpdateDescription(ctx context.Context, id int64, description string) (*domain.Movement, error)
	DeleteMovement(ctx context.Context, id int64) error
}

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	movementUC MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementUC MovementService) *MovementHandler {
	return &MovementHandler{movementUC: movementUC}
}

// Create records a credit or debit.
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMovementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movement, err := h.movementUC.CreateMovement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Get retrieves a movement by ID.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	movement, err := h.movementUC.GetMovement(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// ListByAccount lists the movements of an account, optionally restricted by
// ?startDate, ?endDate and ?type.
func (h *MovementHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	movements, err := h.movementUC.ListMovements(r.Context(), usecase.ListMovementsInput{
		AccountNumber: chi.URLParam(r, "accountNumber"),
		Type:          domain.MovementType(r.URL.Query().Get("type")),
		From:          from,
		To:            to,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// UpdateDescription changes the description of a movement.
func (h *MovementHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req dto.UpdateMovementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movement, err := h.movementUC.UpdateDescription(r.Context(), id, *req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// Delete reverses a movement's effect on the balance and removes it.
func (h *MovementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.movementUC.DeleteMovement(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
