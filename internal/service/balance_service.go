package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hisaab-app/backend/internal/calculator"
	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
	"github.com/hisaab-app/backend/internal/storage"
)

// BalanceService computes balances and suggested transfers. It is stateless
// and re-entrant: every call is a pure function over the current record
// store, so concurrent calls need no coordination.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// GroupBalances is the per-scope view: one net balance per member plus the
// simplified transfer list.
type GroupBalances struct {
	GroupID   string
	Balances  map[string]money.Paise
	Transfers []calculator.Transfer
}

// GlobalBalances is one member's position across every group they share
// with their counterparts, pairwise-netted before simplification.
type GlobalBalances struct {
	MemberID string
	// Net is the member's overall position: positive = owed money.
	Net money.Paise
	// Counterparts maps counterpart member ID to the pairwise net balance
	// from the member's perspective (positive = counterpart owes them).
	Counterparts map[string]money.Paise
	// Transfers is the simplified transfer list over the combined graph.
	Transfers []calculator.Transfer
}

// ComputeGroupBalances loads the group's records, projects them to
// contributions, and reduces to net balances plus suggested transfers.
// The caller must be a group member.
func (s *BalanceService) ComputeGroupBalances(ctx context.Context, actorID, groupID string) (*GroupBalances, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}
	if !group.HasMember(actorID) {
		return nil, fmt.Errorf("%w: not a member of group %s", ErrForbidden, groupID)
	}

	balances, err := s.computeForGroup(ctx, group)
	if err != nil {
		return nil, err
	}

	return &GroupBalances{
		GroupID:   groupID,
		Balances:  balances,
		Transfers: calculator.Simplify(balances),
	}, nil
}

// computeForGroup runs the full read-side pipeline for one group. A failed
// computation never degrades into an empty ("all settled") result.
func (s *BalanceService) computeForGroup(ctx context.Context, group *models.Group) (map[string]money.Paise, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}

	contribs, err := calculator.Project(group.MemberIDs, expenses, settlements)
	if err != nil {
		slog.Error("Ledger projection failed", "group_id", group.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrConsistency, err)
	}

	balances := calculator.NetBalances(contribs)
	if err := calculator.CheckZeroSum(balances); err != nil {
		slog.Error("Zero-sum invariant violated", "group_id", group.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrConsistency, err)
	}
	return balances, nil
}

// ComputeGlobalBalances computes the member's cross-group view. Per-group
// pairwise debts are projected concurrently, then each ordered member pair
// is netted across all shared groups and the simplifier runs once over the
// combined graph — fewer, larger transfers than per-group suggestions.
func (s *BalanceService) ComputeGlobalBalances(ctx context.Context, memberID string) (*GlobalBalances, error) {
	groups, err := s.store.ListGroupsByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var (
		mu         sync.Mutex
		pairGraphs []map[calculator.PairKey]money.Paise
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, group := range groups {
		g.Go(func() error {
			expenses, err := s.store.ListExpensesByGroup(gctx, group.ID)
			if err != nil {
				return fmt.Errorf("failed to load expenses for %s: %w", group.ID, err)
			}
			settlements, err := s.store.ListSettlementsByGroup(gctx, group.ID)
			if err != nil {
				return fmt.Errorf("failed to load settlements for %s: %w", group.ID, err)
			}
			debts, err := calculator.PairDebts(group.MemberIDs, expenses, settlements)
			if err != nil {
				slog.Error("Pairwise projection failed", "group_id", group.ID, "error", err)
				return fmt.Errorf("%w: %v", ErrConsistency, err)
			}
			mu.Lock()
			pairGraphs = append(pairGraphs, debts)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := calculator.CombinePairDebts(pairGraphs)
	mine := calculator.FilterPairsInvolving(combined, memberID)
	counterparts := calculator.CounterpartBalances(mine, memberID)

	var net money.Paise
	for _, b := range counterparts {
		net += b
	}

	balances := calculator.BalancesFromPairs(mine)
	if err := calculator.CheckZeroSum(balances); err != nil {
		slog.Error("Zero-sum invariant violated in global view", "member_id", memberID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrConsistency, err)
	}

	return &GlobalBalances{
		MemberID:     memberID,
		Net:          net,
		Counterparts: counterparts,
		Transfers:    calculator.Simplify(balances),
	}, nil
}

// ResolveSettlementGroup picks the group a global transfer should be acted
// on in: the earliest-created group both members share. A settlement is
// always scoped, so a scope-less suggestion has to land somewhere concrete.
func (s *BalanceService) ResolveSettlementGroup(ctx context.Context, memberA, memberB string) (*models.Group, error) {
	groups, err := s.store.ListGroupsByMember(ctx, memberA)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	for _, g := range groups {
		if g.HasMember(memberB) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: no shared group between members", ErrNotFound)
}
