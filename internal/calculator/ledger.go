// Package calculator implements the pure computation core: ledger
// projection, net balance reduction, debt simplification, and cross-group
// aggregation. Everything here is deterministic, side-effect free, and safe
// to run concurrently; callers load records and hand them in as values.
package calculator

import (
	"errors"
	"fmt"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
)

var (
	// ErrSplitMismatch indicates an expense whose split rows do not sum to
	// its total. The record is corrupt upstream; balances are not computed
	// from it.
	ErrSplitMismatch = errors.New("expense splits do not sum to expense amount")

	// ErrUnknownMember indicates an expense or settlement referencing a
	// member outside the scope's membership, e.g. a member removed after
	// being split into an expense.
	ErrUnknownMember = errors.New("record references member outside scope membership")

	// ErrZeroSumViolated indicates the computed balances do not sum to
	// zero. Money was created or destroyed somewhere upstream; the result
	// must not be shown to a user.
	ErrZeroSumViolated = errors.New("net balances do not sum to zero")
)

// Contribution is one signed ledger entry for a member: positive means the
// member put money in (is owed), negative means they consumed (owe).
type Contribution struct {
	MemberID string
	Amount   money.Paise
}

// Project turns the scope's raw records into a flat list of signed
// contributions:
//
//   - each expense credits its payer with the full amount and debits every
//     split member by their owed share
//   - each counted settlement credits the payer and debits the receiver
//
// An empty scope yields an empty list. Records violating the split-sum
// invariant or referencing unknown members return a consistency error and
// no partial result.
func Project(memberIDs []string, expenses []models.Expense, settlements []models.Settlement) ([]Contribution, error) {
	member := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		member[id] = true
	}

	var contribs []Contribution

	for _, e := range expenses {
		if !member[e.PayerID] {
			return nil, fmt.Errorf("expense %s payer %s: %w", e.ID, e.PayerID, ErrUnknownMember)
		}
		var splitSum money.Paise
		for _, sp := range e.Splits {
			if !member[sp.MemberID] {
				return nil, fmt.Errorf("expense %s split member %s: %w", e.ID, sp.MemberID, ErrUnknownMember)
			}
			splitSum += sp.Owed
		}
		if splitSum != e.Amount {
			return nil, fmt.Errorf("expense %s: splits sum to %d, amount is %d: %w",
				e.ID, splitSum, e.Amount, ErrSplitMismatch)
		}

		contribs = append(contribs, Contribution{MemberID: e.PayerID, Amount: e.Amount})
		for _, sp := range e.Splits {
			contribs = append(contribs, Contribution{MemberID: sp.MemberID, Amount: -sp.Owed})
		}
	}

	for _, s := range settlements {
		if !s.Status.Counted() {
			continue
		}
		if !member[s.FromMemberID] {
			return nil, fmt.Errorf("settlement %s payer %s: %w", s.ID, s.FromMemberID, ErrUnknownMember)
		}
		if !member[s.ToMemberID] {
			return nil, fmt.Errorf("settlement %s receiver %s: %w", s.ID, s.ToMemberID, ErrUnknownMember)
		}
		// The payer's debt shrinks, the receiver's claim shrinks.
		contribs = append(contribs,
			Contribution{MemberID: s.FromMemberID, Amount: s.Amount},
			Contribution{MemberID: s.ToMemberID, Amount: -s.Amount},
		)
	}

	return contribs, nil
}

// PairKey identifies an ordered debtor -> creditor edge.
type PairKey struct {
	Debtor   string
	Creditor string
}

// PairDebts projects the scope's records into a who-owes-whom matrix:
// for each expense, every non-payer split member owes the payer their share;
// counted settlements reduce the payer's edge toward the receiver. Edges may
// go negative here (overpayment); netting of opposing directions happens in
// CombinePairDebts.
func PairDebts(memberIDs []string, expenses []models.Expense, settlements []models.Settlement) (map[PairKey]money.Paise, error) {
	// Reuse Project's validation so pairwise and per-member views can never
	// disagree about which records are admissible.
	if _, err := Project(memberIDs, expenses, settlements); err != nil {
		return nil, err
	}

	debts := make(map[PairKey]money.Paise)
	for _, e := range expenses {
		for _, sp := range e.Splits {
			if sp.MemberID == e.PayerID {
				continue
			}
			debts[PairKey{Debtor: sp.MemberID, Creditor: e.PayerID}] += sp.Owed
		}
	}
	for _, s := range settlements {
		if !s.Status.Counted() {
			continue
		}
		debts[PairKey{Debtor: s.FromMemberID, Creditor: s.ToMemberID}] -= s.Amount
	}
	return debts, nil
}
