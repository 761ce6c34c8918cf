package models

import "github.com/hisaab-app/backend/internal/money"

// SettlementStatus is the lifecycle state of a settlement.
//
// Transitions:
//
//	pending -> paid_pending -> confirmed (terminal)
//	pending | paid_pending -> cancelled  (terminal)
//
// Mark-paid and confirm are idempotent; terminal states never change.
type SettlementStatus string

const (
	// StatusPending: created, payer intends to pay, no proof yet.
	StatusPending SettlementStatus = "pending"
	// StatusPaidPending: payer claims payment made, awaiting receiver confirmation.
	StatusPaidPending SettlementStatus = "paid_pending"
	// StatusConfirmed: receiver acknowledged receipt. Terminal.
	StatusConfirmed SettlementStatus = "confirmed"
	// StatusCancelled: aborted by either party before confirmation. Terminal.
	StatusCancelled SettlementStatus = "cancelled"
)

// Counted reports whether a settlement in this status reduces balances.
// This is the single source of truth for the ledger's "counted" filter:
// a payer's claim counts as soon as it is marked paid, not only after the
// receiver confirms.
func (s SettlementStatus) Counted() bool {
	return s == StatusConfirmed || s == StatusPaidPending
}

// Terminal reports whether the status admits no further transitions.
func (s SettlementStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Valid reports whether s is one of the known statuses.
func (s SettlementStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaidPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// NonTerminalStatuses lists the statuses that block a new settlement for the
// same (from, to, group) triple.
func NonTerminalStatuses() []SettlementStatus {
	return []SettlementStatus{StatusPending, StatusPaidPending}
}

// SettlementMethod is how the payer intends to move the money.
type SettlementMethod string

const (
	MethodUPI  SettlementMethod = "upi"
	MethodCash SettlementMethod = "cash"
)

// Valid reports whether m is a known method.
func (m SettlementMethod) Valid() bool {
	return m == MethodUPI || m == MethodCash
}

// Settlement represents a payment between group members to clear debts.
// It is an append-only audit record: status changes supersede, rows are
// never deleted.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group (scope) this settlement belongs to.
	GroupID string

	// FromMemberID is the member who pays (debtor settling up).
	FromMemberID string

	// ToMemberID is the member who receives payment (creditor being paid).
	ToMemberID string

	// Amount is the payment amount in paise. Always positive.
	Amount money.Paise

	// Status is the current lifecycle state.
	Status SettlementStatus

	// Method is how the payer intends to pay (upi or cash).
	Method SettlementMethod

	// PaymentRef is an optional external reference (e.g. a UPI UTR number)
	// attached when the payer marks the settlement paid.
	PaymentRef string

	// CreatedAt is the Unix timestamp when the settlement was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last status change.
	UpdatedAt int64
}
