package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
	"github.com/hisaab-app/backend/internal/storage"
)

// SettlementService manages the settlement lifecycle:
//
//	pending -> paid_pending -> confirmed
//	pending | paid_pending -> cancelled
//
// All transitions are authorization-checked before any mutation and applied
// as storage-level compare-and-swap writes, so blind retries are safe.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a SettlementService with the given storage
// backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// Create records a new pending settlement from the actor to another group
// member. The amount is the actor's claim; it is not re-validated against a
// possibly stale suggestion, since balances may have moved since the
// suggestion was computed. At most one non-terminal settlement may exist
// per ordered (from, to, group) triple; a second attempt conflicts.
func (s *SettlementService) Create(ctx context.Context, actorID, groupID, toMemberID string, amount money.Paise, method models.SettlementMethod) (*models.Settlement, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if toMemberID == actorID {
		return nil, fmt.Errorf("%w: cannot settle with yourself", ErrInvalidInput)
	}
	if method == "" {
		method = models.MethodUPI
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown settlement method %q", ErrInvalidInput, method)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, groupID)
	}
	if !group.HasMember(actorID) {
		return nil, fmt.Errorf("%w: payer is not a member of group %s", ErrForbidden, groupID)
	}
	if !group.HasMember(toMemberID) {
		return nil, fmt.Errorf("%w: receiver %s is not a member of group %s", ErrNotFound, toMemberID, groupID)
	}

	settlement := &models.Settlement{
		GroupID:      groupID,
		FromMemberID: actorID,
		ToMemberID:   toMemberID,
		Amount:       amount,
		Status:       models.StatusPending,
		Method:       method,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		if errors.Is(err, storage.ErrOpenSettlementExists) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	slog.Info("Settlement created",
		"settlement_id", settlement.ID,
		"group_id", groupID,
		"from", actorID,
		"to", toMemberID,
		"amount", int64(amount),
	)
	return settlement, nil
}

// MarkPaid moves a settlement to paid_pending, optionally attaching an
// external payment reference (e.g. a UPI UTR). Payer only. Idempotent:
// marking an already paid_pending settlement again refreshes the reference
// when a new one is supplied; a retry without a reference leaves any
// previously attached one in place.
func (s *SettlementService) MarkPaid(ctx context.Context, actorID, settlementID, paymentRef string) (*models.Settlement, error) {
	settlement, err := s.getForUpdate(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.FromMemberID != actorID {
		return nil, fmt.Errorf("%w: only the payer can mark a settlement paid", ErrForbidden)
	}

	var ref *string
	if paymentRef != "" {
		ref = &paymentRef
	}
	moved, err := s.store.TransitionSettlement(ctx, settlementID,
		[]models.SettlementStatus{models.StatusPending, models.StatusPaidPending},
		models.StatusPaidPending, ref)
	if err != nil {
		return nil, err
	}
	if !moved {
		if err := s.transitionFailure(ctx, settlementID, models.StatusPaidPending); err != nil {
			return nil, err
		}
	}
	return s.store.GetSettlement(ctx, settlementID)
}

// Confirm moves a settlement to confirmed. Receiver only. Irreversible:
// there is no un-confirm, to preserve the audit trail — a mistaken
// confirmation is corrected by a new opposite-direction settlement.
// Confirming an already-confirmed settlement is a no-op success so retried
// requests are harmless.
func (s *SettlementService) Confirm(ctx context.Context, actorID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.getForUpdate(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ToMemberID != actorID {
		return nil, fmt.Errorf("%w: only the receiver can confirm a settlement", ErrForbidden)
	}

	moved, err := s.store.TransitionSettlement(ctx, settlementID,
		[]models.SettlementStatus{models.StatusPaidPending},
		models.StatusConfirmed, nil)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Already confirmed is a retried request, not an error.
		if err := s.transitionFailure(ctx, settlementID, models.StatusConfirmed); err != nil {
			return nil, err
		}
		return s.store.GetSettlement(ctx, settlementID)
	}

	slog.Info("Settlement confirmed", "settlement_id", settlementID, "by", actorID)
	return s.store.GetSettlement(ctx, settlementID)
}

// Cancel moves a settlement to cancelled. Either party, any time before
// confirmation. The record stays for audit; the ledger just never counts it.
func (s *SettlementService) Cancel(ctx context.Context, actorID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.getForUpdate(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.FromMemberID != actorID && settlement.ToMemberID != actorID {
		return nil, fmt.Errorf("%w: only a party to the settlement can cancel it", ErrForbidden)
	}

	moved, err := s.store.TransitionSettlement(ctx, settlementID,
		models.NonTerminalStatuses(),
		models.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !moved {
		if err := s.transitionFailure(ctx, settlementID, models.StatusCancelled); err != nil {
			return nil, err
		}
		return s.store.GetSettlement(ctx, settlementID)
	}

	slog.Info("Settlement cancelled", "settlement_id", settlementID, "by", actorID)
	return s.store.GetSettlement(ctx, settlementID)
}

func (s *SettlementService) getForUpdate(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: settlement %s", ErrNotFound, settlementID)
		}
		return nil, err
	}
	return settlement, nil
}

// transitionFailure disambiguates a compare-and-swap miss: a row already in
// the target state is an idempotent success for the caller's retry; any
// other state is an illegal transition.
func (s *SettlementService) transitionFailure(ctx context.Context, settlementID string, target models.SettlementStatus) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return fmt.Errorf("%w: settlement %s", ErrNotFound, settlementID)
	}
	if settlement.Status == target {
		// Lost a race against an identical request; the caller's intent
		// already holds.
		return nil
	}
	return fmt.Errorf("%w: settlement is %s, cannot move to %s", ErrConflict, settlement.Status, target)
}
