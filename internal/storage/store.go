// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/hisaab-app/backend/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrOpenSettlementExists is returned when a settlement creation would
	// leave two non-terminal settlements for the same (from, to, group)
	// triple outstanding at once.
	ErrOpenSettlementExists = errors.New("a settlement between these members is already in progress")

	// ErrEmailExists is returned when registering an already-used email.
	ErrEmailExists = errors.New("email already registered")
)

// Store defines the persistence operations the engine needs. The service
// layer depends only on this interface, so storage backends can be swapped
// without touching the computation core.
type Store interface {
	// Members.
	CreateMember(ctx context.Context, m *models.Member) error
	GetMemberByID(ctx context.Context, id string) (*models.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	GetMembersByIDs(ctx context.Context, ids []string) (map[string]*models.Member, error)

	// Groups. ListGroupsByMember returns groups ordered by creation time so
	// shared-scope resolution for global settlements is deterministic.
	CreateGroup(ctx context.Context, g *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByMember(ctx context.Context, memberID string) ([]*models.Group, error)
	AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error

	// Expenses are immutable once created.
	CreateExpense(ctx context.Context, e *models.Expense) error
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// Settlements are append-only. CreateSettlement is a single atomic
	// insert-if-absent: it fails with ErrOpenSettlementExists when a
	// non-terminal settlement for the same (from, to, group) triple is
	// outstanding. TransitionSettlement is a compare-and-swap on status:
	// it reports whether a row actually moved.
	CreateSettlement(ctx context.Context, s *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]models.Settlement, error)
	TransitionSettlement(ctx context.Context, settlementID string, from []models.SettlementStatus, to models.SettlementStatus, paymentRef *string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
