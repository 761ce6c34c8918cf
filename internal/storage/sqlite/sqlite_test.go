package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hisaab-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedMember(t *testing.T, store *SQLiteStore, email, name string) *models.Member {
	t.Helper()
	m := models.NewMember(email, name, "hash", name+"@upi")
	if err := store.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("Failed to seed member %s: %v", email, err)
	}
	return m
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedMember(t, store, "alice@example.com", "Alice")
	bob := seedMember(t, store, "bob@example.com", "Bob")
	carol := seedMember(t, store, "carol@example.com", "Carol")

	t.Run("CreateMember rejects duplicate email", func(t *testing.T) {
		dup := models.NewMember("alice@example.com", "Alice Again", "hash", "")
		err := store.CreateMember(ctx, dup)
		if !errors.Is(err, storage.ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("GetMemberByEmail roundtrip", func(t *testing.T) {
		got, err := store.GetMemberByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetMemberByEmail failed: %v", err)
		}
		if got.ID != alice.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, alice.ID)
		}
		if got.UPIHandle != "Alice@upi" {
			t.Errorf("UPIHandle mismatch: got %s", got.UPIHandle)
		}
	})

	t.Run("GetMemberByID returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetMemberByID(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetMembersByIDs returns only known members", func(t *testing.T) {
		got, err := store.GetMembersByIDs(ctx, []string{alice.ID, bob.ID, "ghost"})
		if err != nil {
			t.Fatalf("GetMembersByIDs failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 members, got %d", len(got))
		}
		if _, ok := got["ghost"]; ok {
			t.Error("Unknown ID should not appear in result")
		}
	})

	var groupID string
	t.Run("CreateGroup and GetGroup roundtrip", func(t *testing.T) {
		g := &models.Group{Name: "Goa Trip", MemberIDs: []string{alice.ID, bob.ID}}
		if err := store.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if g.ID == "" {
			t.Fatal("Expected group ID to be generated")
		}
		groupID = g.ID

		got, err := store.GetGroup(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Goa Trip" {
			t.Errorf("Name mismatch: got %s", got.Name)
		}
		if len(got.MemberIDs) != 2 {
			t.Errorf("Expected 2 members, got %d", len(got.MemberIDs))
		}
	})

	t.Run("AddGroupMembers is idempotent", func(t *testing.T) {
		if err := store.AddGroupMembers(ctx, groupID, []string{bob.ID, carol.ID}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}
		got, err := store.GetGroup(ctx, groupID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.MemberIDs) != 3 {
			t.Errorf("Expected 3 members after add, got %d", len(got.MemberIDs))
		}
	})

	t.Run("ListGroupsByMember returns only memberships", func(t *testing.T) {
		other := &models.Group{Name: "Flatmates", MemberIDs: []string{bob.ID, carol.ID}}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsByMember(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Expected 1 group for alice, got %d", len(groups))
		}
		if groups[0].ID != groupID {
			t.Errorf("Wrong group: got %s, want %s", groups[0].ID, groupID)
		}
	})

	t.Run("CreateExpense and ListExpensesByGroup roundtrip", func(t *testing.T) {
		e := &models.Expense{
			GroupID:     groupID,
			PayerID:     alice.ID,
			Amount:      30000,
			Description: "Dinner",
			Splits: []models.Split{
				{MemberID: alice.ID, Owed: 10000},
				{MemberID: bob.ID, Owed: 10000},
				{MemberID: carol.ID, Owed: 10000},
			},
		}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if e.ID == "" {
			t.Fatal("Expected expense ID to be generated")
		}

		expenses, err := store.ListExpensesByGroup(ctx, groupID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(expenses))
		}
		got := expenses[0]
		if got.Amount != 30000 {
			t.Errorf("Amount mismatch: got %d", got.Amount)
		}
		if len(got.Splits) != 3 {
			t.Errorf("Expected 3 splits, got %d", len(got.Splits))
		}
		var sum int64
		for _, sp := range got.Splits {
			sum += int64(sp.Owed)
		}
		if sum != 30000 {
			t.Errorf("Splits sum to %d, want 30000", sum)
		}
	})
}

func TestSettlementLifecycleStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedMember(t, store, "alice@example.com", "Alice")
	bob := seedMember(t, store, "bob@example.com", "Bob")

	g := &models.Group{Name: "Trip", MemberIDs: []string{alice.ID, bob.ID}}
	if err := store.CreateGroup(ctx, g); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	newSettlement := func() *models.Settlement {
		return &models.Settlement{
			GroupID:      g.ID,
			FromMemberID: alice.ID,
			ToMemberID:   bob.ID,
			Amount:       5000,
			Status:       models.StatusPending,
			Method:       models.MethodUPI,
		}
	}

	t.Run("CreateSettlement blocks a second open settlement for the pair", func(t *testing.T) {
		first := newSettlement()
		if err := store.CreateSettlement(ctx, first); err != nil {
			t.Fatalf("First CreateSettlement failed: %v", err)
		}

		second := newSettlement()
		err := store.CreateSettlement(ctx, second)
		if !errors.Is(err, storage.ErrOpenSettlementExists) {
			t.Errorf("Expected ErrOpenSettlementExists, got %v", err)
		}

		// Opposite direction is a different triple and is allowed.
		reverse := &models.Settlement{
			GroupID:      g.ID,
			FromMemberID: bob.ID,
			ToMemberID:   alice.ID,
			Amount:       2000,
			Status:       models.StatusPending,
			Method:       models.MethodCash,
		}
		if err := store.CreateSettlement(ctx, reverse); err != nil {
			t.Errorf("Reverse-direction settlement should succeed: %v", err)
		}

		// After the open one is cancelled the pair is free again.
		moved, err := store.TransitionSettlement(ctx, first.ID,
			models.NonTerminalStatuses(), models.StatusCancelled, nil)
		if err != nil || !moved {
			t.Fatalf("Cancel transition failed: moved=%v err=%v", moved, err)
		}
		if err := store.CreateSettlement(ctx, newSettlement()); err != nil {
			t.Errorf("Settlement after cancellation should succeed: %v", err)
		}
	})

	t.Run("TransitionSettlement is a compare-and-swap", func(t *testing.T) {
		st := &models.Settlement{
			GroupID:      g.ID,
			FromMemberID: bob.ID,
			ToMemberID:   alice.ID,
			Amount:       7500,
			Status:       models.StatusPending,
			Method:       models.MethodUPI,
		}
		// The earlier reverse settlement is still open; cancel it first.
		settlements, err := store.ListSettlementsByGroup(ctx, g.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		for _, existing := range settlements {
			if existing.FromMemberID == bob.ID && !existing.Status.Terminal() {
				if _, err := store.TransitionSettlement(ctx, existing.ID,
					models.NonTerminalStatuses(), models.StatusCancelled, nil); err != nil {
					t.Fatalf("Cleanup cancel failed: %v", err)
				}
			}
		}
		if err := store.CreateSettlement(ctx, st); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		// Confirm requires paid_pending; from pending nothing moves.
		moved, err := store.TransitionSettlement(ctx, st.ID,
			[]models.SettlementStatus{models.StatusPaidPending}, models.StatusConfirmed, nil)
		if err != nil {
			t.Fatalf("TransitionSettlement failed: %v", err)
		}
		if moved {
			t.Error("Confirm from pending should not move the row")
		}

		ref := "UTR12345"
		moved, err = store.TransitionSettlement(ctx, st.ID,
			[]models.SettlementStatus{models.StatusPending, models.StatusPaidPending},
			models.StatusPaidPending, &ref)
		if err != nil || !moved {
			t.Fatalf("Mark-paid transition failed: moved=%v err=%v", moved, err)
		}

		got, err := store.GetSettlement(ctx, st.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.Status != models.StatusPaidPending {
			t.Errorf("Status: got %s, want paid_pending", got.Status)
		}
		if got.PaymentRef != ref {
			t.Errorf("PaymentRef: got %q, want %q", got.PaymentRef, ref)
		}

		moved, err = store.TransitionSettlement(ctx, st.ID,
			[]models.SettlementStatus{models.StatusPaidPending}, models.StatusConfirmed, nil)
		if err != nil || !moved {
			t.Fatalf("Confirm transition failed: moved=%v err=%v", moved, err)
		}

		// Terminal: nothing moves a confirmed settlement.
		moved, err = store.TransitionSettlement(ctx, st.ID,
			models.NonTerminalStatuses(), models.StatusCancelled, nil)
		if err != nil {
			t.Fatalf("TransitionSettlement failed: %v", err)
		}
		if moved {
			t.Error("Cancel should not move a confirmed settlement")
		}
	})

	t.Run("GetSettlement returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetSettlement(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
