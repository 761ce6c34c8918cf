package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/storage"
)

// CreateMember inserts a new member into the database.
func (s *SQLiteStore) CreateMember(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (id, email, display_name, password_hash, upi_handle, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var upi interface{}
	if m.UPIHandle != "" {
		upi = m.UPIHandle
	}

	_, err := s.db.ExecContext(ctx, query,
		m.ID,
		m.Email,
		m.DisplayName,
		m.PasswordHash,
		upi,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: members.email") {
			return storage.ErrEmailExists
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	m := &models.Member{}
	var upi sql.NullString
	if err := row.Scan(&m.ID, &m.Email, &m.DisplayName, &m.PasswordHash, &upi, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if upi.Valid {
		m.UPIHandle = upi.String
	}
	return m, nil
}

// GetMemberByEmail retrieves a member by their email address.
func (s *SQLiteStore) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, upi_handle, created_at, updated_at
		FROM members WHERE email = ?`, email)

	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}
	return m, nil
}

// GetMemberByID retrieves a member by their ID.
func (s *SQLiteStore) GetMemberByID(ctx context.Context, id string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, upi_handle, created_at, updated_at
		FROM members WHERE id = ?`, id)

	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}
	return m, nil
}

// GetMembersByIDs retrieves multiple members by their IDs.
// Returns a map of member ID to Member. IDs that don't exist are omitted.
func (s *SQLiteStore) GetMembersByIDs(ctx context.Context, ids []string) (map[string]*models.Member, error) {
	if len(ids) == 0 {
		return make(map[string]*models.Member), nil
	}

	query := `
		SELECT id, email, display_name, password_hash, upi_handle, created_at, updated_at
		FROM members
		WHERE id IN (?` + repeatPlaceholder(len(ids)-1) + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get members by IDs: %w", err)
	}
	defer rows.Close()

	members := make(map[string]*models.Member)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}
