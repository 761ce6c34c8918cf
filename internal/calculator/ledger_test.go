package calculator

import (
	"errors"
	"testing"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
)

var abc = []string{"A", "B", "C"}

func expense(id, payer string, amount money.Paise, splits ...models.Split) models.Expense {
	return models.Expense{ID: id, GroupID: "g1", PayerID: payer, Amount: amount, Splits: splits}
}

func TestProjectAndNetBalances(t *testing.T) {
	tests := []struct {
		name        string
		expenses    []models.Expense
		settlements []models.Settlement
		want        map[string]money.Paise
	}{
		{
			name: "equal three-way split",
			expenses: []models.Expense{
				expense("e1", "A", 300,
					models.Split{MemberID: "A", Owed: 100},
					models.Split{MemberID: "B", Owed: 100},
					models.Split{MemberID: "C", Owed: 100},
				),
			},
			want: map[string]money.Paise{"A": 200, "B": -100, "C": -100},
		},
		{
			name: "middleman nets to zero",
			expenses: []models.Expense{
				expense("e1", "B", 150, models.Split{MemberID: "A", Owed: 150}),
				expense("e2", "C", 150, models.Split{MemberID: "B", Owed: 150}),
			},
			want: map[string]money.Paise{"A": -150, "B": 0, "C": 150},
		},
		{
			name:     "empty scope",
			expenses: nil,
			want:     map[string]money.Paise{},
		},
		{
			name: "confirmed settlement reduces both sides",
			expenses: []models.Expense{
				expense("e1", "B", 100, models.Split{MemberID: "A", Owed: 100}),
			},
			settlements: []models.Settlement{
				{ID: "s1", GroupID: "g1", FromMemberID: "A", ToMemberID: "B", Amount: 100, Status: models.StatusConfirmed},
			},
			want: map[string]money.Paise{"A": 0, "B": 0},
		},
		{
			name: "paid_pending counts, pending and cancelled do not",
			expenses: []models.Expense{
				expense("e1", "B", 300, models.Split{MemberID: "A", Owed: 300}),
			},
			settlements: []models.Settlement{
				{ID: "s1", FromMemberID: "A", ToMemberID: "B", Amount: 100, Status: models.StatusPaidPending},
				{ID: "s2", FromMemberID: "A", ToMemberID: "B", Amount: 100, Status: models.StatusPending},
				{ID: "s3", FromMemberID: "A", ToMemberID: "B", Amount: 100, Status: models.StatusCancelled},
			},
			want: map[string]money.Paise{"A": -200, "B": 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contribs, err := Project(abc, tt.expenses, tt.settlements)
			if err != nil {
				t.Fatalf("Project failed: %v", err)
			}
			got := NetBalances(contribs)
			if err := CheckZeroSum(got); err != nil {
				t.Fatalf("zero-sum violated: %v", err)
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("balance[%s] = %d, want %d", id, got[id], want)
				}
			}
		})
	}
}

func TestProjectConsistencyErrors(t *testing.T) {
	t.Run("split sum mismatch", func(t *testing.T) {
		_, err := Project(abc, []models.Expense{
			expense("e1", "A", 300,
				models.Split{MemberID: "B", Owed: 100},
				models.Split{MemberID: "C", Owed: 100},
			),
		}, nil)
		if !errors.Is(err, ErrSplitMismatch) {
			t.Fatalf("expected ErrSplitMismatch, got %v", err)
		}
	})

	t.Run("split references removed member", func(t *testing.T) {
		_, err := Project([]string{"A", "B"}, []models.Expense{
			expense("e1", "A", 200,
				models.Split{MemberID: "A", Owed: 100},
				models.Split{MemberID: "ghost", Owed: 100},
			),
		}, nil)
		if !errors.Is(err, ErrUnknownMember) {
			t.Fatalf("expected ErrUnknownMember, got %v", err)
		}
	})

	t.Run("settlement references removed member", func(t *testing.T) {
		_, err := Project([]string{"A", "B"}, nil, []models.Settlement{
			{ID: "s1", FromMemberID: "ghost", ToMemberID: "B", Amount: 100, Status: models.StatusConfirmed},
		})
		if !errors.Is(err, ErrUnknownMember) {
			t.Fatalf("expected ErrUnknownMember, got %v", err)
		}
	})

	t.Run("uncounted settlements are skipped entirely", func(t *testing.T) {
		// A pending or cancelled record never contributes, so it is not
		// validated either; it only matters once it starts counting.
		_, err := Project([]string{"A", "B"}, nil, []models.Settlement{
			{ID: "s1", FromMemberID: "ghost", ToMemberID: "B", Amount: 100, Status: models.StatusPending},
		})
		if err != nil {
			t.Fatalf("expected uncounted settlement to be ignored, got %v", err)
		}
	})
}

func TestPairDebts(t *testing.T) {
	expenses := []models.Expense{
		expense("e1", "A", 300,
			models.Split{MemberID: "A", Owed: 100},
			models.Split{MemberID: "B", Owed: 100},
			models.Split{MemberID: "C", Owed: 100},
		),
	}
	settlements := []models.Settlement{
		{ID: "s1", FromMemberID: "B", ToMemberID: "A", Amount: 40, Status: models.StatusConfirmed},
		{ID: "s2", FromMemberID: "C", ToMemberID: "A", Amount: 100, Status: models.StatusPending}, // not counted
	}

	debts, err := PairDebts(abc, expenses, settlements)
	if err != nil {
		t.Fatalf("PairDebts failed: %v", err)
	}

	if got := debts[PairKey{Debtor: "B", Creditor: "A"}]; got != 60 {
		t.Errorf("B->A = %d, want 60", got)
	}
	if got := debts[PairKey{Debtor: "C", Creditor: "A"}]; got != 100 {
		t.Errorf("C->A = %d, want 100", got)
	}
	// Payer's own share never becomes an edge.
	if got := debts[PairKey{Debtor: "A", Creditor: "A"}]; got != 0 {
		t.Errorf("A->A = %d, want 0", got)
	}
}
