package calculator

import (
	"container/heap"
	"sort"

	"github.com/hisaab-app/backend/internal/money"
)

// Transfer is a suggested payment that would reduce debts. It is a
// recommendation recomputed fresh on every request, never persisted.
type Transfer struct {
	FromMemberID string
	ToMemberID   string
	Amount       money.Paise
}

// party is a heap entry: a member with a remaining positive magnitude.
type party struct {
	id  string
	amt money.Paise
}

// partyHeap is a max-heap on amount, breaking ties toward the
// lexicographically smaller member ID. The tie-break is load-bearing: it is
// what makes Simplify's output deterministic.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }
func (h partyHeap) Less(i, j int) bool {
	if h[i].amt != h[j].amt {
		return h[i].amt > h[j].amt
	}
	return h[i].id < h[j].id
}
func (h partyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *partyHeap) Push(x any)        { *h = append(*h, x.(party)) }
func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Simplify turns a zero-sum balance set into the minimal ordered list of
// transfers that settles everyone.
//
// Greedy extremes matching: repeatedly pair the largest remaining creditor
// with the largest remaining debtor and move min(credit, debt) between them.
// Each step fully resolves at least one party, so N non-zero balances yield
// at most N-1 transfers and applying them all zeroes every balance.
//
// All-zero input returns an empty list: everyone is settled, not an error.
func Simplify(balances map[string]money.Paise) []Transfer {
	var creditors, debtors partyHeap
	for id, b := range balances {
		switch {
		case b > 0:
			creditors = append(creditors, party{id: id, amt: b})
		case b < 0:
			debtors = append(debtors, party{id: id, amt: -b})
		}
	}
	if len(creditors) == 0 || len(debtors) == 0 {
		return nil
	}

	// Heap layout depends on insertion order; seed from a sorted slice so
	// identical balances always walk the same way.
	sort.Slice(creditors, func(i, j int) bool { return creditors[i].id < creditors[j].id })
	sort.Slice(debtors, func(i, j int) bool { return debtors[i].id < debtors[j].id })
	heap.Init(&creditors)
	heap.Init(&debtors)

	var transfers []Transfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		cr := heap.Pop(&creditors).(party)
		db := heap.Pop(&debtors).(party)

		t := cr.amt
		if db.amt < t {
			t = db.amt
		}
		transfers = append(transfers, Transfer{
			FromMemberID: db.id,
			ToMemberID:   cr.id,
			Amount:       t,
		})

		if cr.amt -= t; cr.amt > 0 {
			heap.Push(&creditors, cr)
		}
		if db.amt -= t; db.amt > 0 {
			heap.Push(&debtors, db)
		}
	}
	return transfers
}
