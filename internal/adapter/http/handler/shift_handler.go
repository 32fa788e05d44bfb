package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/adapter/http/dto"
	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// ShiftService defines the behavior needed by ShiftHandler.
type ShiftService interface {
	StartShift(ctx context.Context, input usecase.StartShiftInput) (*domain.Shift, error)
	EndShift(ctx context.Context, input usecase.EndShiftInput) (*usecase.EndShiftResult, error)
	HandoverShift(ctx context.Context, input usecase.HandoverShiftInput) (*domain.Shift, error)
	AbandonShift(ctx context.Context, input usecase.AbandonShiftInput) (*domain.Shift, error)
	GetShift(ctx context.Context, id string) (*domain.Shift, error)
	GetActiveShift(ctx context.Context, employeeID string) (*domain.Shift, error)
	GetSummary(ctx context.Context, shiftID string) (*domain.ShiftSummary, error)
	GetExpectedBalances(ctx context.Context, shiftID string) (map[string]decimal.Decimal, error)
}

// ShiftReconciliationService lists the reconciliation records of a shift.
type ShiftReconciliationService interface {
	ListByShift(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error)
}

// ShiftHandler handles shift-related HTTP requests.
type ShiftHandler struct {
	shiftUC ShiftService
	reconUC ShiftReconciliationService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(shiftUC ShiftService, reconUC ShiftReconciliationService) *ShiftHandler {
	return &ShiftHandler{shiftUC: shiftUC, reconUC: reconUC}
}

// Start opens a new shift for the authenticated employee.
func (h *ShiftHandler) Start(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.StartShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	shift, err := h.shiftUC.StartShift(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to start shift", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ShiftFromDomain(shift))
}

// End closes a shift, reconciling every counted currency.
func (h *ShiftHandler) End(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		writeError(w, http.StatusBadRequest, "missing shift ID", "")
		return
	}

	var req dto.EndShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.shiftUC.EndShift(r.Context(), req.ToUseCaseInput(shiftID, actor.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to end shift", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EndShiftFromResult(result))
}

// Handover transfers the drawer's opening state to another employee.
func (h *ShiftHandler) Handover(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		writeError(w, http.StatusBadRequest, "missing shift ID", "")
		return
	}

	var req dto.HandoverShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	shift, err := h.shiftUC.HandoverShift(r.Context(), req.ToUseCaseInput(shiftID, actor.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to hand over shift", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ShiftFromDomain(shift))
}

// Abandon force-closes a shift without reconciliation.
func (h *ShiftHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		writeError(w, http.StatusBadRequest, "missing shift ID", "")
		return
	}

	var req dto.AbandonShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	shift, err := h.shiftUC.AbandonShift(r.Context(), req.ToUseCaseInput(shiftID, actor.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to abandon shift", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ShiftFromDomain(shift))
}

// Get retrieves a shift by ID.
func (h *ShiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing shift ID", "")
		return
	}

	shift, err := h.shiftUC.GetShift(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get shift", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ShiftFromDomain(shift))
}

// GetActive retrieves the authenticated employee's active shift.
func (h *ShiftHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	shift, err := h.shiftUC.GetActiveShift(r.Context(), actor.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get active shift", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ShiftFromDomain(shift))
}

// GetSummary retrieves a shift's transaction summary.
func (h *ShiftHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		writeError(w, http.StatusBadRequest, "missing shift ID", "")
		return
	}

	summary, err := h.shiftUC.GetSummary(r.Context(), shiftID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get shift summary", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// GetExpected projects the expected per-currency balances of a shift.
func (h *ShiftHandler) GetExpected(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		writeError(w, http.StatusBadRequest, "missing shift ID", "")
		return
	}

	expected, err := h.shiftUC.GetExpectedBalances(r.Context(), shiftID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to project expected balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ExpectedBalancesResponse{
		ShiftID:  shiftID,
		Expected: expected,
	})
}

// ListReconciliations lists the reconciliation records written when the
// shift was closed.
func (h *ShiftHandler) ListReconciliations(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		writeError(w, http.StatusBadRequest, "missing shift ID", "")
		return
	}

	recs, err := h.reconUC.ListByShift(r.Context(), shiftID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list reconciliations", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationsFromDomain(recs))
}
