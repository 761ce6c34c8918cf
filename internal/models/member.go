package models

import (
	"time"

	"github.com/google/uuid"
)

// Member represents a registered account that can belong to groups,
// pay expenses, and settle debts.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Email is the member's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the member's password.
	PasswordHash string

	// UPIHandle is the member's UPI payment address (e.g. "name@upi").
	// Optional; settlements can still be recorded as cash without it.
	UPIHandle string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewMember creates a member with a fresh ID and timestamps.
func NewMember(email, displayName, passwordHash, upiHandle string) *Member {
	now := time.Now().Unix()
	return &Member{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		UPIHandle:    upiHandle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
