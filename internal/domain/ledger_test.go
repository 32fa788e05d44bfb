package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func entry(kind EntryKind, amount, before, after string) *LedgerEntry {
	a, _ := decimal.NewFromString(amount)
	b, _ := decimal.NewFromString(before)
	c, _ := decimal.NewFromString(after)
	return &LedgerEntry{Kind: kind, Amount: a, BalanceBefore: b, BalanceAfter: c}
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		entry  *LedgerEntry
		signed string
	}{
		{"deposit adds", entry(EntryKindDeposit, "50", "0", "50"), "50"},
		{"withdrawal subtracts", entry(EntryKindWithdrawal, "30", "50", "20"), "-30"},
		{"positive adjustment", entry(EntryKindAdjustment, "5.25", "20", "25.25"), "5.25"},
		{"negative adjustment", entry(EntryKindAdjustment, "-5.25", "25.25", "20"), "-5.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, _ := decimal.NewFromString(tt.signed)
			if got := tt.entry.SignedAmount(); !got.Equal(want) {
				t.Errorf("SignedAmount() = %s, want %s", got, want)
			}
		})
	}
}

func TestReplayBalance(t *testing.T) {
	t.Run("valid chain reproduces balance", func(t *testing.T) {
		entries := []*LedgerEntry{
			entry(EntryKindDeposit, "1000", "0", "1000"),
			entry(EntryKindWithdrawal, "250", "1000", "750"),
			entry(EntryKindAdjustment, "-0.50", "750", "749.50"),
			entry(EntryKindDeposit, "50", "749.50", "799.50"),
		}

		balance, ok := ReplayBalance(entries)
		if !ok {
			t.Fatal("expected chain to verify")
		}

		want, _ := decimal.NewFromString("799.50")
		if !balance.Equal(want) {
			t.Errorf("balance = %s, want %s", balance, want)
		}
	})

	t.Run("broken chain detected", func(t *testing.T) {
		entries := []*LedgerEntry{
			entry(EntryKindDeposit, "1000", "0", "1000"),
			entry(EntryKindWithdrawal, "250", "900", "650"), // before does not match
		}

		if _, ok := ReplayBalance(entries); ok {
			t.Error("expected broken chain to fail verification")
		}
	})

	t.Run("empty ledger is zero", func(t *testing.T) {
		balance, ok := ReplayBalance(nil)
		if !ok || !balance.IsZero() {
			t.Errorf("expected zero balance, got %s ok=%v", balance, ok)
		}
	})

	t.Run("deposit then withdraw round-trip restores balance", func(t *testing.T) {
		entries := []*LedgerEntry{
			entry(EntryKindDeposit, "120", "0", "120"),
			entry(EntryKindDeposit, "50", "120", "170"),
			entry(EntryKindWithdrawal, "50", "170", "120"),
		}

		balance, ok := ReplayBalance(entries)
		if !ok {
			t.Fatal("expected chain to verify")
		}
		if !balance.Equal(decimal.NewFromInt(120)) {
			t.Errorf("balance = %s, want 120", balance)
		}
	})
}
