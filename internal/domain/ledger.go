package domain

import "github.com/shopspring/decimal"

// Financials is the derived financial state of a customer.
type Financials struct {
	TotalPaid decimal.Decimal
	Balance   decimal.Decimal
	Status    CustomerStatus
}

// ComputeFinancials derives total paid, remaining balance and status from a
// customer's full payment ledger plus the initial deposit.
//
//	totalPaid = initialDeposit + Σ payments
//	balance   = max(0, totalPrice − totalPaid)
//
// A zero balance means Completed. A customer previously Completed reverts to
// Active only when the balance becomes strictly positive again; otherwise the
// previous status is carried, defaulting to Active for new records.
func ComputeFinancials(totalPrice, initialDeposit decimal.Decimal, previous CustomerStatus, payments []Payment) Financials {
	totalPaid := initialDeposit
	for _, p := range payments {
		totalPaid = totalPaid.Add(p.Amount)
	}

	balance := totalPrice.Sub(totalPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	status := previous
	if status == "" {
		status = CustomerStatusActive
	}
	if balance.IsZero() {
		status = CustomerStatusCompleted
	} else if status == CustomerStatusCompleted {
		status = CustomerStatusActive
	}

	return Financials{
		TotalPaid: totalPaid,
		Balance:   balance,
		Status:    status,
	}
}
