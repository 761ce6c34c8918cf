package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
	"github.com/hisaab-app/backend/internal/storage"
	"github.com/hisaab-app/backend/internal/storage/sqlite"
)

// newTestStore creates a throwaway SQLite store backed by a temp directory.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hisaab-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedMember(t *testing.T, store storage.Store, email, name string) *models.Member {
	t.Helper()
	m := models.NewMember(email, name, "hash", name+"@upi")
	if err := store.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("Failed to seed member %s: %v", email, err)
	}
	return m
}

func seedGroup(t *testing.T, store storage.Store, name string, memberIDs ...string) *models.Group {
	t.Helper()
	g := &models.Group{Name: name, MemberIDs: memberIDs}
	if err := store.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("Failed to seed group %s: %v", name, err)
	}
	return g
}

func seedExpense(t *testing.T, store storage.Store, groupID, payerID string, amount int64, splits []models.Split) *models.Expense {
	t.Helper()
	e := &models.Expense{
		GroupID:     groupID,
		PayerID:     payerID,
		Amount:      money.Paise(amount),
		Description: "test expense",
		Splits:      splits,
	}
	if err := store.CreateExpense(context.Background(), e); err != nil {
		t.Fatalf("Failed to seed expense: %v", err)
	}
	return e
}
