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

// DrawerService defines the behavior needed by DrawerHandler.
type DrawerService interface {
	GetDrawer(ctx context.Context, drawerID string) (*domain.CashDrawer, error)
	ListDrawers(ctx context.Context, limit, offset int) ([]*domain.CashDrawer, error)
	GetDrawerBalances(ctx context.Context, drawerID string) ([]*domain.DrawerBalance, error)
	Deposit(ctx context.Context, drawerID, currencyID string, amount decimal.Decimal, actorID string) (*domain.LedgerEntry, error)
	Withdraw(ctx context.Context, drawerID, currencyID string, amount decimal.Decimal, actorID string) (*domain.LedgerEntry, error)
	Adjust(ctx context.Context, input usecase.AdjustInput) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error)
	VerifyDrawer(ctx context.Context, drawerID string) (*usecase.DrawerVerification, error)
}

// ReconciliationService defines the behavior needed for drawer counts.
type ReconciliationService interface {
	ReconcileDrawer(ctx context.Context, input usecase.ReconcileDrawerInput) (*domain.Reconciliation, error)
	ListByDrawer(ctx context.Context, input usecase.ListByDrawerInput) ([]*domain.Reconciliation, error)
}

// DrawerHandler handles drawer-related HTTP requests.
type DrawerHandler struct {
	ledgerUC DrawerService
	reconUC  ReconciliationService
}

// NewDrawerHandler creates a new DrawerHandler.
func NewDrawerHandler(ledgerUC DrawerService, reconUC ReconciliationService) *DrawerHandler {
	return &DrawerHandler{ledgerUC: ledgerUC, reconUC: reconUC}
}

// List lists cash drawers.
func (h *DrawerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	drawers, err := h.ledgerUC.ListDrawers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list drawers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DrawersFromDomain(drawers))
}

// Get retrieves a drawer by ID.
func (h *DrawerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	drawer, err := h.ledgerUC.GetDrawer(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DrawerFromDomain(drawer))
}

// GetBalances retrieves the cached per-currency balances of a drawer.
func (h *DrawerHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	balances, err := h.ledgerUC.GetDrawerBalances(r.Context(), drawerID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get drawer balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DrawerBalancesFromDomain(balances))
}

// Deposit adds cash to a drawer.
func (h *DrawerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.CashMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.Deposit(r.Context(), drawerID, req.CurrencyID, req.Amount, actor.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to deposit", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Withdraw removes cash from a drawer.
func (h *DrawerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.CashMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.Withdraw(r.Context(), drawerID, req.CurrencyID, req.Amount, actor.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to withdraw", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Adjust corrects a drawer balance to a counted value.
func (h *DrawerHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.Adjust(r.Context(), req.ToUseCaseInput(drawerID, actor.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to adjust balance", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Reconcile records a standalone drawer count and corrects any variance.
func (h *DrawerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	var req dto.ReconcileDrawerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rec, err := h.reconUC.ReconcileDrawer(r.Context(), req.ToUseCaseInput(drawerID, actor.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reconcile drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ReconciliationFromDomain(rec))
}

// ListEntries lists a drawer's ledger entries, newest first.
func (h *DrawerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.ledgerUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		DrawerID: drawerID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ledger entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListReconciliations lists a drawer's reconciliation history, newest first.
func (h *DrawerHandler) ListReconciliations(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	recs, err := h.reconUC.ListByDrawer(r.Context(), usecase.ListByDrawerInput{
		DrawerID: drawerID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reconciliations", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationsFromDomain(recs))
}

// Verify replays the drawer's ledger and compares it to cached balances.
func (h *DrawerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	drawerID := chi.URLParam(r, "id")
	if drawerID == "" {
		writeError(w, http.StatusBadRequest, "missing drawer ID", "")
		return
	}

	verification, err := h.ledgerUC.VerifyDrawer(r.Context(), drawerID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to verify drawer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.VerificationFromResult(verification))
}
