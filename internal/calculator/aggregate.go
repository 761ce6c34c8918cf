package calculator

import "github.com/hisaab-app/backend/internal/money"

// CombinePairDebts merges per-group pairwise debt matrices into one
// scope-less graph. Each unordered member pair collapses to a single
// directed edge: opposing debts across groups cancel, and only the net
// remainder survives. The result feeds the simplifier once, producing
// fewer, larger transfers than simplifying each group independently.
func CombinePairDebts(groups []map[PairKey]money.Paise) map[PairKey]money.Paise {
	// Fold both directions of every pair into one canonical edge (keyed on
	// the smaller debtor ID) before any zero check. A fully settled group
	// can leave a zero edge in its matrix; netting per direction instead of
	// per pair would let such an edge mask its live counterpart.
	net := make(map[PairKey]money.Paise)
	for _, g := range groups {
		for k, v := range g {
			canon := k
			if k.Debtor > k.Creditor {
				canon = PairKey{Debtor: k.Creditor, Creditor: k.Debtor}
				v = -v
			}
			net[canon] += v
		}
	}

	combined := make(map[PairKey]money.Paise)
	for k, v := range net {
		switch {
		case v > 0:
			combined[k] = v
		case v < 0:
			combined[PairKey{Debtor: k.Creditor, Creditor: k.Debtor}] = -v
		}
	}
	return combined
}

// FilterPairsInvolving keeps only edges touching the given member — the
// counterpart graph for one member's global view.
func FilterPairsInvolving(pairs map[PairKey]money.Paise, memberID string) map[PairKey]money.Paise {
	out := make(map[PairKey]money.Paise)
	for k, v := range pairs {
		if k.Debtor == memberID || k.Creditor == memberID {
			out[k] = v
		}
	}
	return out
}

// BalancesFromPairs reduces a pairwise debt graph to one net balance per
// member. The graph's edges are internally conserved, so the result always
// satisfies the zero-sum invariant.
func BalancesFromPairs(pairs map[PairKey]money.Paise) map[string]money.Paise {
	balances := make(map[string]money.Paise)
	for k, v := range pairs {
		balances[k.Debtor] -= v
		balances[k.Creditor] += v
	}
	return balances
}

// CounterpartBalances flattens a member's pair graph into signed balances
// per counterpart: positive = the counterpart owes the member.
func CounterpartBalances(pairs map[PairKey]money.Paise, memberID string) map[string]money.Paise {
	out := make(map[string]money.Paise)
	for k, v := range pairs {
		switch memberID {
		case k.Creditor:
			out[k.Debtor] += v
		case k.Debtor:
			out[k.Creditor] -= v
		}
	}
	return out
}
