package api

import (
	"sort"

	"github.com/hisaab-app/backend/internal/calculator"
	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
)

// Amounts are serialized twice: paise for machines, rupee strings for
// humans. Clients never have to do float arithmetic on money.

type amountJSON struct {
	Paise   int64  `json:"paise"`
	Display string `json:"display"`
}

func amount(p money.Paise) amountJSON {
	return amountJSON{Paise: int64(p), Display: p.Rupees()}
}

type memberJSON struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
	UPIHandle   string `json:"upi_handle,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

func toMemberJSON(m *models.Member) memberJSON {
	return memberJSON{
		ID:          m.ID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		UPIHandle:   m.UPIHandle,
		CreatedAt:   m.CreatedAt,
	}
}

type groupJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	CreatedAt int64    `json:"created_at"`
}

func toGroupJSON(g *models.Group) groupJSON {
	return groupJSON{ID: g.ID, Name: g.Name, MemberIDs: g.MemberIDs, CreatedAt: g.CreatedAt}
}

type splitJSON struct {
	MemberID string     `json:"member_id"`
	Owed     amountJSON `json:"owed"`
}

type expenseJSON struct {
	ID          string      `json:"id"`
	GroupID     string      `json:"group_id"`
	PayerID     string      `json:"payer_id"`
	Amount      amountJSON  `json:"amount"`
	Description string      `json:"description"`
	Splits      []splitJSON `json:"splits"`
	CreatedAt   int64       `json:"created_at"`
}

func toExpenseJSON(e *models.Expense) expenseJSON {
	splits := make([]splitJSON, len(e.Splits))
	for i, sp := range e.Splits {
		splits[i] = splitJSON{MemberID: sp.MemberID, Owed: amount(sp.Owed)}
	}
	return expenseJSON{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Amount:      amount(e.Amount),
		Description: e.Description,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

type settlementJSON struct {
	ID           string     `json:"id"`
	GroupID      string     `json:"group_id"`
	FromMemberID string     `json:"from_member_id"`
	ToMemberID   string     `json:"to_member_id"`
	Amount       amountJSON `json:"amount"`
	Status       string     `json:"status"`
	Method       string     `json:"method"`
	PaymentRef   string     `json:"payment_ref,omitempty"`
	CreatedAt    int64      `json:"created_at"`
	UpdatedAt    int64      `json:"updated_at"`
}

func toSettlementJSON(s *models.Settlement) settlementJSON {
	return settlementJSON{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromMemberID: s.FromMemberID,
		ToMemberID:   s.ToMemberID,
		Amount:       amount(s.Amount),
		Status:       string(s.Status),
		Method:       string(s.Method),
		PaymentRef:   s.PaymentRef,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type balanceJSON struct {
	MemberID string     `json:"member_id"`
	Net      amountJSON `json:"net"`
}

type transferJSON struct {
	FromMemberID string     `json:"from_member_id"`
	ToMemberID   string     `json:"to_member_id"`
	Amount       amountJSON `json:"amount"`
}

func toTransferJSON(transfers []calculator.Transfer) []transferJSON {
	out := make([]transferJSON, len(transfers))
	for i, tr := range transfers {
		out[i] = transferJSON{
			FromMemberID: tr.FromMemberID,
			ToMemberID:   tr.ToMemberID,
			Amount:       amount(tr.Amount),
		}
	}
	return out
}

// toBalanceJSON renders a balance map in sorted member order so responses
// are stable for clients and tests.
func toBalanceJSON(balances map[string]money.Paise) []balanceJSON {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]balanceJSON, len(ids))
	for i, id := range ids {
		out[i] = balanceJSON{MemberID: id, Net: amount(balances[id])}
	}
	return out
}
