package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/adapter/http/dto"
	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

type shiftServiceStub struct {
	startFn    func(ctx context.Context, input usecase.StartShiftInput) (*domain.Shift, error)
	endFn      func(ctx context.Context, input usecase.EndShiftInput) (*usecase.EndShiftResult, error)
	handoverFn func(ctx context.Context, input usecase.HandoverShiftInput) (*domain.Shift, error)
	abandonFn  func(ctx context.Context, input usecase.AbandonShiftInput) (*domain.Shift, error)
	getFn      func(ctx context.Context, id string) (*domain.Shift, error)
	activeFn   func(ctx context.Context, employeeID string) (*domain.Shift, error)
	summaryFn  func(ctx context.Context, shiftID string) (*domain.ShiftSummary, error)
	expectedFn func(ctx context.Context, shiftID string) (map[string]decimal.Decimal, error)
}

func (s *shiftServiceStub) StartShift(ctx context.Context, input usecase.StartShiftInput) (*domain.Shift, error) {
	return s.startFn(ctx, input)
}

func (s *shiftServiceStub) EndShift(ctx context.Context, input usecase.EndShiftInput) (*usecase.EndShiftResult, error) {
	return s.endFn(ctx, input)
}

func (s *shiftServiceStub) HandoverShift(ctx context.Context, input usecase.HandoverShiftInput) (*domain.Shift, error) {
	return s.handoverFn(ctx, input)
}

func (s *shiftServiceStub) AbandonShift(ctx context.Context, input usecase.AbandonShiftInput) (*domain.Shift, error) {
	return s.abandonFn(ctx, input)
}

func (s *shiftServiceStub) GetShift(ctx context.Context, id string) (*domain.Shift, error) {
	return s.getFn(ctx, id)
}

func (s *shiftServiceStub) GetActiveShift(ctx context.Context, employeeID string) (*domain.Shift, error) {
	return s.activeFn(ctx, employeeID)
}

func (s *shiftServiceStub) GetSummary(ctx context.Context, shiftID string) (*domain.ShiftSummary, error) {
	return s.summaryFn(ctx, shiftID)
}

func (s *shiftServiceStub) GetExpectedBalances(ctx context.Context, shiftID string) (map[string]decimal.Decimal, error) {
	return s.expectedFn(ctx, shiftID)
}

type shiftReconStub struct {
	listByShiftFn func(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error)
}

func (s *shiftReconStub) ListByShift(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error) {
	return s.listByShiftFn(ctx, shiftID)
}

func authenticate(r *http.Request, employee *domain.Employee) *http.Request {
	return r.WithContext(domain.ContextWithEmployee(r.Context(), employee))
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

var testCashier = &domain.Employee{
	ID:    "emp-1",
	Email: "cashier@fxdesk.io",
	Role:  domain.RoleCashier,
}

func TestShiftHandler_Start_Success(t *testing.T) {
	shift := &domain.Shift{
		ID:         "shift-1",
		EmployeeID: "emp-1",
		Status:     domain.ShiftStatusActive,
		StartTime:  time.Now().UTC(),
	}

	var captured usecase.StartShiftInput
	handler := NewShiftHandler(&shiftServiceStub{
		startFn: func(ctx context.Context, input usecase.StartShiftInput) (*domain.Shift, error) {
			captured = input
			return shift, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.StartShiftRequest{
		OpeningBalances: []dto.CurrencyAmountItem{
			{CurrencyID: "usd", Amount: decimal.NewFromInt(500)},
		},
	})

	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts", bytes.NewReader(body)), testCashier)
	rec := httptest.NewRecorder()

	handler.Start(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.EmployeeID != "emp-1" {
		t.Fatalf("expected employee ID from token, got %q", captured.EmployeeID)
	}
	if len(captured.OpeningBalances) != 1 || captured.OpeningBalances[0].CurrencyID != "usd" {
		t.Fatalf("expected opening balances to pass through, got %+v", captured.OpeningBalances)
	}

	var resp dto.ShiftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "shift-1" || resp.Status != "active" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestShiftHandler_Start_Unauthenticated(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		startFn: func(ctx context.Context, input usecase.StartShiftInput) (*domain.Shift, error) {
			t.Fatal("StartShift should not be called")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/shifts", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	handler.Start(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestShiftHandler_Start_AlreadyActive(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		startFn: func(ctx context.Context, input usecase.StartShiftInput) (*domain.Shift, error) {
			return nil, domain.ErrShiftAlreadyActive
		},
	}, nil)

	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts", bytes.NewBufferString("{}")), testCashier)
	rec := httptest.NewRecorder()

	handler.Start(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestShiftHandler_Start_InvalidBody(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		startFn: func(ctx context.Context, input usecase.StartShiftInput) (*domain.Shift, error) {
			t.Fatal("StartShift should not be called")
			return nil, nil
		},
	}, nil)

	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts", bytes.NewBufferString("{bad json")), testCashier)
	rec := httptest.NewRecorder()

	handler.Start(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestShiftHandler_End_Success(t *testing.T) {
	endTime := time.Now().UTC()
	result := &usecase.EndShiftResult{
		Shift: &domain.Shift{
			ID:         "shift-1",
			EmployeeID: "emp-1",
			Status:     domain.ShiftStatusCompleted,
			EndTime:    &endTime,
		},
		Summary: &domain.ShiftSummary{ShiftID: "shift-1", TotalTransactions: 4},
		Results: []usecase.ReconciliationResult{
			{
				CurrencyID: "usd",
				Expected:   decimal.NewFromInt(610),
				Actual:     decimal.NewFromInt(590),
				Difference: decimal.NewFromInt(-20),
				Status:     domain.VarianceShort,
			},
		},
		HasVariance: true,
	}

	var captured usecase.EndShiftInput
	handler := NewShiftHandler(&shiftServiceStub{
		endFn: func(ctx context.Context, input usecase.EndShiftInput) (*usecase.EndShiftResult, error) {
			captured = input
			return result, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.EndShiftRequest{
		ClosingBalances: []dto.CurrencyAmountItem{
			{CurrencyID: "usd", Amount: decimal.NewFromInt(590)},
		},
	})

	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts/shift-1/end", bytes.NewReader(body)), testCashier)
	req = setChiURLParam(req, "id", "shift-1")
	rec := httptest.NewRecorder()

	handler.End(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.ShiftID != "shift-1" || captured.ActorID != "emp-1" {
		t.Fatalf("expected shift and actor from request, got %+v", captured)
	}

	var resp dto.EndShiftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.HasVariance {
		t.Fatal("expected variance to be reported")
	}
	if len(resp.Results) != 1 || resp.Results[0].Status != "short" {
		t.Fatalf("unexpected reconciliation results: %+v", resp.Results)
	}
}

func TestShiftHandler_End_MissingID(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		endFn: func(ctx context.Context, input usecase.EndShiftInput) (*usecase.EndShiftResult, error) {
			t.Fatal("EndShift should not be called")
			return nil, nil
		},
	}, nil)

	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts//end", bytes.NewBufferString("{}")), testCashier)
	rec := httptest.NewRecorder()

	handler.End(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestShiftHandler_End_NotOwned(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		endFn: func(ctx context.Context, input usecase.EndShiftInput) (*usecase.EndShiftResult, error) {
			return nil, domain.ErrForbidden
		},
	}, nil)

	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts/shift-1/end", bytes.NewBufferString("{}")), testCashier)
	req = setChiURLParam(req, "id", "shift-1")
	rec := httptest.NewRecorder()

	handler.End(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestShiftHandler_Handover_Success(t *testing.T) {
	newShift := &domain.Shift{
		ID:         "shift-2",
		EmployeeID: "emp-2",
		Status:     domain.ShiftStatusActive,
	}

	var captured usecase.HandoverShiftInput
	handler := NewShiftHandler(&shiftServiceStub{
		handoverFn: func(ctx context.Context, input usecase.HandoverShiftInput) (*domain.Shift, error) {
			captured = input
			return newShift, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.HandoverShiftRequest{ToEmployeeID: "emp-2"})

	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts/shift-1/handover", bytes.NewReader(body)), testCashier)
	req = setChiURLParam(req, "id", "shift-1")
	rec := httptest.NewRecorder()

	handler.Handover(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.ShiftID != "shift-1" || captured.ToEmployeeID != "emp-2" {
		t.Fatalf("unexpected handover input: %+v", captured)
	}

	var resp dto.ShiftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.EmployeeID != "emp-2" {
		t.Fatalf("expected new shift for emp-2, got %+v", resp)
	}
}

func TestShiftHandler_Abandon_Success(t *testing.T) {
	endTime := time.Now().UTC()
	shift := &domain.Shift{
		ID:         "shift-1",
		EmployeeID: "emp-1",
		Status:     domain.ShiftStatusAbandoned,
		EndTime:    &endTime,
	}

	handler := NewShiftHandler(&shiftServiceStub{
		abandonFn: func(ctx context.Context, input usecase.AbandonShiftInput) (*domain.Shift, error) {
			return shift, nil
		},
	}, nil)

	admin := &domain.Employee{ID: "admin-1", Role: domain.RoleAdmin}
	req := authenticate(httptest.NewRequest(http.MethodPost, "/shifts/shift-1/abandon", bytes.NewBufferString("{}")), admin)
	req = setChiURLParam(req, "id", "shift-1")
	rec := httptest.NewRecorder()

	handler.Abandon(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ShiftResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "abandoned" {
		t.Fatalf("expected abandoned status, got %+v", resp)
	}
}

func TestShiftHandler_GetActive(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		activeFn: func(ctx context.Context, employeeID string) (*domain.Shift, error) {
			if employeeID != "emp-1" {
				t.Fatalf("expected lookup for emp-1, got %q", employeeID)
			}
			return &domain.Shift{ID: "shift-1", EmployeeID: employeeID, Status: domain.ShiftStatusActive}, nil
		},
	}, nil)

	req := authenticate(httptest.NewRequest(http.MethodGet, "/shifts/active", nil), testCashier)
	rec := httptest.NewRecorder()

	handler.GetActive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestShiftHandler_GetActive_NoShift(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		activeFn: func(ctx context.Context, employeeID string) (*domain.Shift, error) {
			return nil, domain.ErrShiftNotFound
		},
	}, nil)

	req := authenticate(httptest.NewRequest(http.MethodGet, "/shifts/active", nil), testCashier)
	rec := httptest.NewRecorder()

	handler.GetActive(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestShiftHandler_GetExpected(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{
		expectedFn: func(ctx context.Context, shiftID string) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{
				"usd": decimal.NewFromInt(610),
				"eur": decimal.NewFromInt(200),
			}, nil
		},
	}, nil)

	req := authenticate(httptest.NewRequest(http.MethodGet, "/shifts/shift-1/expected", nil), testCashier)
	req = setChiURLParam(req, "id", "shift-1")
	rec := httptest.NewRecorder()

	handler.GetExpected(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ExpectedBalancesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ShiftID != "shift-1" || !resp.Expected["usd"].Equal(decimal.NewFromInt(610)) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestShiftHandler_ListReconciliations(t *testing.T) {
	handler := NewShiftHandler(&shiftServiceStub{}, &shiftReconStub{
		listByShiftFn: func(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error) {
			shiftRef := shiftID
			return []*domain.Reconciliation{
				{ID: "rec-1", DrawerID: "drawer-1", CurrencyID: "usd", ShiftID: &shiftRef, Status: domain.VarianceBalanced},
			}, nil
		},
	})

	req := authenticate(httptest.NewRequest(http.MethodGet, "/shifts/shift-1/reconciliations", nil), testCashier)
	req = setChiURLParam(req, "id", "shift-1")
	rec := httptest.NewRecorder()

	handler.ListReconciliations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "rec-1" {
		t.Fatalf("unexpected reconciliations: %+v", resp)
	}
}
