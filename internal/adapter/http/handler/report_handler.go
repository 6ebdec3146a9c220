package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	ReportByClientID(ctx context.Context, clientID int64, from, to *time.Time) ([]domain.ReportRow, error)
	ReportByIdentification(ctx context.Context, identification string, from, to *time.Time) ([]domain.ReportRow, error)
}

// ReportHandler serves account statements.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// ByClient returns the statement of a client resolved by client ID.
func (h *ReportHandler) ByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseIDParam(r, "clientId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := h.reportUC.ReportByClientID(r.Context(), clientID, from, to)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(rows))
}

// ByPersona returns the statement of a client resolved by identification.
func (h *ReportHandler) ByPersona(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := h.reportUC.ReportByIdentification(r.Context(), chi.URLParam(r, "personaId"), from, to)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(rows))
}
