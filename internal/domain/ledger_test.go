package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func payments(amounts ...string) []Payment {
	out := make([]Payment, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, Payment{Amount: dec(a)})
	}
	return out
}

func TestComputeFinancials(t *testing.T) {
	t.Parallel()

	t.Run("balance is total price minus deposit and payments", func(t *testing.T) {
		got := ComputeFinancials(dec("5000"), dec("1000"), CustomerStatusActive, payments("2000", "1500"))
		if !got.TotalPaid.Equal(dec("4500")) {
			t.Fatalf("expected total paid 4500, got %s", got.TotalPaid)
		}
		if !got.Balance.Equal(dec("1500")) {
			t.Fatalf("expected balance 1500, got %s", got.Balance)
		}
		if got.Status != CustomerStatusActive {
			t.Fatalf("expected Active, got %s", got.Status)
		}
	})

	t.Run("balance clamps at zero on overpayment", func(t *testing.T) {
		got := ComputeFinancials(dec("9000"), dec("3000"), CustomerStatusActive, payments("6000", "500"))
		if !got.Balance.IsZero() {
			t.Fatalf("expected balance 0, got %s", got.Balance)
		}
		if got.Status != CustomerStatusCompleted {
			t.Fatalf("expected Completed, got %s", got.Status)
		}
	})

	t.Run("zero balance marks completed", func(t *testing.T) {
		got := ComputeFinancials(dec("9000"), dec("3000"), CustomerStatusActive, payments("6000"))
		if !got.Balance.IsZero() {
			t.Fatalf("expected balance 0, got %s", got.Balance)
		}
		if got.Status != CustomerStatusCompleted {
			t.Fatalf("expected Completed, got %s", got.Status)
		}
	})

	t.Run("completed reverts to active only on positive balance", func(t *testing.T) {
		got := ComputeFinancials(dec("5000"), dec("1000"), CustomerStatusCompleted, payments("2000"))
		if got.Status != CustomerStatusActive {
			t.Fatalf("expected Active after correction, got %s", got.Status)
		}

		got = ComputeFinancials(dec("5000"), dec("5000"), CustomerStatusCompleted, nil)
		if got.Status != CustomerStatusCompleted {
			t.Fatalf("expected Completed, got %s", got.Status)
		}
	})

	t.Run("empty status defaults to active", func(t *testing.T) {
		got := ComputeFinancials(dec("5000"), dec("1000"), "", nil)
		if got.Status != CustomerStatusActive {
			t.Fatalf("expected Active, got %s", got.Status)
		}
		if !got.Balance.Equal(dec("4000")) {
			t.Fatalf("expected balance 4000, got %s", got.Balance)
		}
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		ps := payments("2000", "1500")
		first := ComputeFinancials(dec("5000"), dec("1000"), CustomerStatusActive, ps)
		second := ComputeFinancials(dec("5000"), dec("1000"), first.Status, ps)
		if !first.Balance.Equal(second.Balance) || first.Status != second.Status {
			t.Fatalf("expected identical results, got %+v then %+v", first, second)
		}
	})

	t.Run("deleting a payment recomputes as if it never existed", func(t *testing.T) {
		before := ComputeFinancials(dec("5000"), dec("1000"), CustomerStatusActive, payments("2000", "1500"))
		if !before.Balance.Equal(dec("1500")) {
			t.Fatalf("expected balance 1500, got %s", before.Balance)
		}
		after := ComputeFinancials(dec("5000"), dec("1000"), before.Status, payments("2000"))
		if !after.Balance.Equal(dec("3000")) {
			t.Fatalf("expected balance 3000 after delete, got %s", after.Balance)
		}
	})
}
