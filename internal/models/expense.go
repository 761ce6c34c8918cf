package models

import "github.com/hisaab-app/backend/internal/money"

// Expense represents an atomic shared expense: one member paid the full
// amount, and each split row records how much of it a member owes.
//
// Expenses are immutable once created. The creator is responsible for the
// invariant sum(Splits[i].Owed) == Amount; the ledger re-checks it on every
// read and refuses to compute balances from a violating record.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group (scope) this expense belongs to.
	GroupID string

	// PayerID is the member who paid the full amount.
	PayerID string

	// Amount is the total expense amount in paise. Always positive.
	Amount money.Paise

	// Description is a short human-readable label ("Dinner", "Cab").
	Description string

	// Splits records each member's owed share. A payer who also consumed
	// appears here with their own share and nets naturally.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one member's owed share of an expense.
type Split struct {
	// MemberID is the member who owes this share.
	MemberID string

	// Owed is the share amount in paise. Never negative.
	Owed money.Paise
}
