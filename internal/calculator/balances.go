package calculator

import "github.com/hisaab-app/backend/internal/money"

// NetBalances reduces a contribution list to one signed balance per member.
// Positive = the member is owed money by the scope; negative = they owe.
// Members who net to exactly zero are kept in the map so callers can show
// "all settled" per member.
func NetBalances(contribs []Contribution) map[string]money.Paise {
	balances := make(map[string]money.Paise)
	for _, c := range contribs {
		balances[c.MemberID] += c.Amount
	}
	return balances
}

// CheckZeroSum verifies the conservation invariant: for a closed scope the
// balances must sum to exactly zero. A violation means the projection or the
// upstream data is corrupt, and the result must be discarded, never shown as
// a partial answer.
func CheckZeroSum(balances map[string]money.Paise) error {
	var sum money.Paise
	for _, b := range balances {
		sum += b
	}
	if sum != 0 {
		return ErrZeroSumViolated
	}
	return nil
}
