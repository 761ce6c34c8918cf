package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
	"github.com/hisaab-app/backend/internal/storage"
)

// ExpenseService records shared expenses. Split construction lives here —
// the ledger only ever reads finished records and re-checks the split-sum
// invariant instead of repairing it.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates an ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ExpenseInput describes a new expense. Exactly one of the split shapes is
// used: SplitAmong for an equal split (remainder paise to the first member
// in the given order), or Shares for explicit per-member amounts.
type ExpenseInput struct {
	PayerID     string
	Amount      money.Paise
	Description string
	SplitAmong  []string
	Shares      []models.Split
}

// Create validates and persists an expense in the given group. The
// sum-of-splits invariant is established here, before the record ever
// reaches the ledger.
func (s *ExpenseService) Create(ctx context.Context, actorID, groupID string, in ExpenseInput) (*models.Expense, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}
	if !group.HasMember(actorID) {
		return nil, fmt.Errorf("%w: not a member of group %s", ErrForbidden, groupID)
	}
	if !group.HasMember(in.PayerID) {
		return nil, fmt.Errorf("%w: payer %s is not a member of group %s", ErrNotFound, in.PayerID, groupID)
	}

	splits, err := buildSplits(group, in)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     groupID,
		PayerID:     in.PayerID,
		Amount:      in.Amount,
		Description: in.Description,
		Splits:      splits,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", groupID,
		"payer_id", in.PayerID,
		"amount", int64(in.Amount),
		"splits", len(splits),
	)
	return expense, nil
}

// List returns the group's expenses, oldest first. Caller must be a member.
func (s *ExpenseService) List(ctx context.Context, actorID, groupID string) ([]models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}
	if !group.HasMember(actorID) {
		return nil, fmt.Errorf("%w: not a member of group %s", ErrForbidden, groupID)
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

func buildSplits(group *models.Group, in ExpenseInput) ([]models.Split, error) {
	switch {
	case len(in.Shares) > 0 && len(in.SplitAmong) > 0:
		return nil, fmt.Errorf("%w: provide either equal-split members or explicit shares, not both", ErrInvalidInput)

	case len(in.Shares) > 0:
		var sum money.Paise
		seen := make(map[string]bool, len(in.Shares))
		for _, sp := range in.Shares {
			if sp.Owed < 0 {
				return nil, fmt.Errorf("%w: share for %s is negative", ErrInvalidInput, sp.MemberID)
			}
			if !group.HasMember(sp.MemberID) {
				return nil, fmt.Errorf("%w: share member %s is not in group", ErrNotFound, sp.MemberID)
			}
			if seen[sp.MemberID] {
				return nil, fmt.Errorf("%w: duplicate share for %s", ErrInvalidInput, sp.MemberID)
			}
			seen[sp.MemberID] = true
			sum += sp.Owed
		}
		if sum != in.Amount {
			return nil, fmt.Errorf("%w: shares sum to %d, amount is %d", ErrInvalidInput, sum, in.Amount)
		}
		return in.Shares, nil

	default:
		among := in.SplitAmong
		if len(among) == 0 {
			// No explicit members: split across the whole group.
			among = group.MemberIDs
		}
		for _, id := range among {
			if !group.HasMember(id) {
				return nil, fmt.Errorf("%w: split member %s is not in group", ErrNotFound, id)
			}
		}
		shares, err := money.SplitEqual(in.Amount, len(among))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		splits := make([]models.Split, len(among))
		for i, id := range among {
			splits[i] = models.Split{MemberID: id, Owed: shares[i]}
		}
		return splits, nil
	}
}
