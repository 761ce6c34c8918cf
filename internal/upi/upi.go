// Package upi formats UPI deep links for the payment-app handoff.
//
// This is a boundary concern: the link is derived from a settlement and the
// payee's member record, and carries no balance logic. The same string works
// as an upi:// intent link and as QR payload text.
package upi

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/hisaab-app/backend/internal/models"
)

// ErrNoHandle is returned when the payee has no UPI handle on file.
var ErrNoHandle = errors.New("payee has no UPI handle")

// Link is a rendered payment handoff.
type Link struct {
	// URI is the upi://pay deep link.
	URI string
	// Note is the transaction note embedded in the link.
	Note string
}

// ForSettlement builds the deep link for paying a settlement to the given
// payee. The amount is rendered in decimal major units from paise; currency
// is fixed to INR.
func ForSettlement(s *models.Settlement, payee *models.Member) (*Link, error) {
	if payee.UPIHandle == "" {
		return nil, ErrNoHandle
	}
	if s.Amount <= 0 {
		return nil, fmt.Errorf("settlement amount must be positive")
	}

	note := fmt.Sprintf("Settling up with %s", payee.DisplayName)

	params := url.Values{}
	params.Set("pa", payee.UPIHandle)
	params.Set("pn", payee.DisplayName)
	params.Set("am", s.Amount.Rupees())
	params.Set("cu", "INR")
	params.Set("tn", note)

	return &Link{
		URI:  "upi://pay?" + params.Encode(),
		Note: note,
	}, nil
}
