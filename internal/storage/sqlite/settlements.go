package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
	"github.com/hisaab-app/backend/internal/storage"
)

// CreateSettlement persists a new settlement in a single atomic
// insert-if-absent. The insert only fires when no non-terminal settlement
// exists for the same ordered (group, from, to) triple; otherwise it
// reports storage.ErrOpenSettlementExists. Combined with the partial unique
// index in the schema, two concurrent creations cannot both succeed.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, st *models.Settlement) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if st.CreatedAt == 0 {
		st.CreatedAt = now
	}
	if st.UpdatedAt == 0 {
		st.UpdatedAt = st.CreatedAt
	}

	open := models.NonTerminalStatuses()
	openArgs := make([]interface{}, len(open))
	placeholders := make([]string, len(open))
	for i, status := range open {
		openArgs[i] = string(status)
		placeholders[i] = "?"
	}

	var ref interface{}
	if st.PaymentRef != "" {
		ref = st.PaymentRef
	}

	query := fmt.Sprintf(`
		INSERT INTO settlements (id, group_id, from_member_id, to_member_id, amount, status, method, payment_ref, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM settlements
			WHERE group_id = ? AND from_member_id = ? AND to_member_id = ?
			AND status IN (%s)
		)`, strings.Join(placeholders, ", "))

	args := []interface{}{
		st.ID, st.GroupID, st.FromMemberID, st.ToMemberID, int64(st.Amount),
		string(st.Status), string(st.Method), ref, st.CreatedAt, st.UpdatedAt,
		st.GroupID, st.FromMemberID, st.ToMemberID,
	}
	args = append(args, openArgs...)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		// The partial unique index catches the race the NOT EXISTS misses.
		if strings.Contains(err.Error(), "idx_settlements_open") {
			return storage.ErrOpenSettlementExists
		}
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrOpenSettlementExists
	}
	return nil
}

func scanSettlement(row interface{ Scan(...any) error }) (*models.Settlement, error) {
	st := &models.Settlement{}
	var amount int64
	var status, method string
	var ref sql.NullString
	if err := row.Scan(&st.ID, &st.GroupID, &st.FromMemberID, &st.ToMemberID,
		&amount, &status, &method, &ref, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.Amount = money.Paise(amount)
	st.Status = models.SettlementStatus(status)
	st.Method = models.SettlementMethod(method)
	if ref.Valid {
		st.PaymentRef = ref.String
	}
	return st, nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_member_id, to_member_id, amount, status, method, payment_ref, created_at, updated_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	)
	st, err := scanSettlement(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return st, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, oldest first.
// Cancelled and confirmed records are included: the table is an audit trail.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_member_id, to_member_id, amount, status, method, payment_ref, created_at, updated_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		st, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// TransitionSettlement is a compare-and-swap on status: the update fires
// only while the row is still in one of the expected `from` statuses. It
// returns false when no row moved, which the caller disambiguates into
// "already there" (idempotent no-op), "illegal transition", or "not found".
// When paymentRef is non-nil the reference is (re)attached with the swap.
func (s *SQLiteStore) TransitionSettlement(ctx context.Context, settlementID string, from []models.SettlementStatus, to models.SettlementStatus, paymentRef *string) (bool, error) {
	placeholders := make([]string, len(from))
	args := []interface{}{string(to), time.Now().Unix()}
	if paymentRef != nil {
		args = []interface{}{string(to), time.Now().Unix(), *paymentRef}
	}
	args = append(args, settlementID)
	for i, status := range from {
		placeholders[i] = "?"
		args = append(args, string(status))
	}

	set := "status = ?, updated_at = ?"
	if paymentRef != nil {
		set = "status = ?, updated_at = ?, payment_ref = ?"
	}

	query := fmt.Sprintf(
		"UPDATE settlements SET %s WHERE id = ? AND status IN (%s)",
		set, strings.Join(placeholders, ", "),
	)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to transition settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
