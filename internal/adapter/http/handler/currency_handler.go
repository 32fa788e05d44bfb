package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fxdesk/cashdesk/internal/adapter/http/dto"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// CurrencyHandler handles currency catalog HTTP requests.
type CurrencyHandler struct {
	currencyRepo usecase.CurrencyRepository
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyRepo usecase.CurrencyRepository) *CurrencyHandler {
	return &CurrencyHandler{currencyRepo: currencyRepo}
}

// List lists all currencies.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencyRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list currencies", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrenciesFromDomain(currencies))
}

// Get retrieves a currency by ID.
func (h *CurrencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing currency ID", "")
		return
	}

	currency, err := h.currencyRepo.GetByID(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get currency", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}
