package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hisaab-app/backend/internal/auth"
	"github.com/hisaab-app/backend/internal/service"
	"github.com/hisaab-app/backend/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hisaab-api-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-key-at-least-32-bytes!!", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	server := NewServer(
		service.NewAuthService(authenticator, jwtManager),
		service.NewGroupService(store),
		service.NewExpenseService(store),
		service.NewBalanceService(store),
		service.NewSettlementService(store),
		store,
		jwtManager,
	)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts
}

// call sends a JSON request and decodes the JSON response into out (if
// non-nil), returning the status code.
func call(t *testing.T, ts *httptest.Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func registerMember(t *testing.T, ts *httptest.Server, email, name, upiHandle string) (memberID, token string) {
	t.Helper()

	var resp struct {
		Member struct {
			ID string `json:"id"`
		} `json:"member"`
		Token string `json:"token"`
	}
	code := call(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        email,
		"display_name": name,
		"password":     "correct-horse",
		"upi_handle":   upiHandle,
	}, &resp)
	if code != http.StatusCreated {
		t.Fatalf("Register %s: got status %d", email, code)
	}
	return resp.Member.ID, resp.Token
}

func TestAPIEndToEnd(t *testing.T) {
	ts := setupTestServer(t)

	aliceID, aliceToken := registerMember(t, ts, "alice@example.com", "Alice", "alice@upi")
	bobID, bobToken := registerMember(t, ts, "bob@example.com", "Bob", "bob@upi")

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		code := call(t, ts, http.MethodGet, "/api/groups", "", nil, nil)
		if code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", code)
		}
	})

	t.Run("login returns a working token", func(t *testing.T) {
		var resp struct {
			Token string `json:"token"`
		}
		code := call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct-horse",
		}, &resp)
		if code != http.StatusOK || resp.Token == "" {
			t.Fatalf("Login failed: status %d", code)
		}

		code = call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, nil)
		if code != http.StatusUnauthorized {
			t.Errorf("Wrong password: expected 401, got %d", code)
		}
	})

	var groupID string
	t.Run("create group", func(t *testing.T) {
		var resp struct {
			ID        string   `json:"id"`
			MemberIDs []string `json:"member_ids"`
		}
		code := call(t, ts, http.MethodPost, "/api/groups", aliceToken, map[string]interface{}{
			"name":       "Goa Trip",
			"member_ids": []string{bobID},
		}, &resp)
		if code != http.StatusCreated {
			t.Fatalf("Create group: got status %d", code)
		}
		if len(resp.MemberIDs) != 2 {
			t.Errorf("Expected creator plus one member, got %v", resp.MemberIDs)
		}
		groupID = resp.ID
	})

	t.Run("record expense and read balances", func(t *testing.T) {
		code := call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/expenses", aliceToken, map[string]interface{}{
			"payer_id":    aliceID,
			"amount":      "200.00",
			"description": "Hotel",
		}, nil)
		if code != http.StatusCreated {
			t.Fatalf("Create expense: got status %d", code)
		}

		var resp struct {
			Balances []struct {
				MemberID string `json:"member_id"`
				Net      struct {
					Paise   int64  `json:"paise"`
					Display string `json:"display"`
				} `json:"net"`
			} `json:"balances"`
			Transfers []struct {
				FromMemberID string `json:"from_member_id"`
				ToMemberID   string `json:"to_member_id"`
			} `json:"suggested_transfers"`
		}
		code = call(t, ts, http.MethodGet, "/api/groups/"+groupID+"/balances", bobToken, nil, &resp)
		if code != http.StatusOK {
			t.Fatalf("Group balances: got status %d", code)
		}
		byMember := map[string]int64{}
		for _, b := range resp.Balances {
			byMember[b.MemberID] = b.Net.Paise
		}
		if byMember[aliceID] != 10000 || byMember[bobID] != -10000 {
			t.Errorf("Balances: got %v", byMember)
		}
		if len(resp.Transfers) != 1 || resp.Transfers[0].FromMemberID != bobID {
			t.Errorf("Transfers: got %+v", resp.Transfers)
		}
	})

	t.Run("invalid amount is a bad request", func(t *testing.T) {
		code := call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/expenses", aliceToken, map[string]interface{}{
			"payer_id": aliceID,
			"amount":   "-5.00",
		}, nil)
		if code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})

	var settlementID string
	t.Run("settlement lifecycle over HTTP", func(t *testing.T) {
		var created struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		code := call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/settlements", bobToken, map[string]string{
			"to_member_id": aliceID,
			"amount":       "100.00",
			"method":       "upi",
		}, &created)
		if code != http.StatusCreated {
			t.Fatalf("Create settlement: got status %d", code)
		}
		if created.Status != "pending" {
			t.Errorf("Status: got %s, want pending", created.Status)
		}
		settlementID = created.ID

		// Duplicate open settlement for the pair conflicts.
		code = call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/settlements", bobToken, map[string]string{
			"to_member_id": aliceID,
			"amount":       "50.00",
		}, nil)
		if code != http.StatusConflict {
			t.Errorf("Duplicate settlement: expected 409, got %d", code)
		}

		var link struct {
			URI         string `json:"uri"`
			PayeeHandle string `json:"payee_handle"`
		}
		code = call(t, ts, http.MethodGet, "/api/settlements/"+settlementID+"/upi", bobToken, nil, &link)
		if code != http.StatusOK {
			t.Fatalf("UPI link: got status %d", code)
		}
		if !strings.HasPrefix(link.URI, "upi://pay?") || !strings.Contains(link.URI, "am=100.00") {
			t.Errorf("Unexpected UPI link %q", link.URI)
		}
		if link.PayeeHandle != "alice@upi" {
			t.Errorf("Payee handle: got %s", link.PayeeHandle)
		}

		var paid struct {
			Status     string `json:"status"`
			PaymentRef string `json:"payment_ref"`
		}
		code = call(t, ts, http.MethodPost, "/api/settlements/"+settlementID+"/pay", bobToken, map[string]string{
			"payment_ref": "UTR42",
		}, &paid)
		if code != http.StatusOK || paid.Status != "paid_pending" || paid.PaymentRef != "UTR42" {
			t.Fatalf("Mark paid: status %d, body %+v", code, paid)
		}

		// Receiver-only confirm: the payer gets 403.
		code = call(t, ts, http.MethodPost, "/api/settlements/"+settlementID+"/confirm", bobToken, nil, nil)
		if code != http.StatusForbidden {
			t.Errorf("Payer confirm: expected 403, got %d", code)
		}

		var confirmed struct {
			Status string `json:"status"`
		}
		code = call(t, ts, http.MethodPost, "/api/settlements/"+settlementID+"/confirm", aliceToken, nil, &confirmed)
		if code != http.StatusOK || confirmed.Status != "confirmed" {
			t.Fatalf("Confirm: status %d, body %+v", code, confirmed)
		}
	})

	t.Run("balances reflect the confirmed settlement", func(t *testing.T) {
		var resp struct {
			Balances []struct {
				MemberID string `json:"member_id"`
				Net      struct {
					Paise int64 `json:"paise"`
				} `json:"net"`
			} `json:"balances"`
			Transfers []struct{} `json:"suggested_transfers"`
		}
		code := call(t, ts, http.MethodGet, "/api/groups/"+groupID+"/balances", aliceToken, nil, &resp)
		if code != http.StatusOK {
			t.Fatalf("Group balances: got status %d", code)
		}
		for _, b := range resp.Balances {
			if b.Net.Paise != 0 {
				t.Errorf("Member %s not settled: %d", b.MemberID, b.Net.Paise)
			}
		}
		if len(resp.Transfers) != 0 {
			t.Errorf("Expected no transfers, got %d", len(resp.Transfers))
		}
	})

	t.Run("global balances across groups", func(t *testing.T) {
		var resp struct {
			Net struct {
				Paise int64 `json:"paise"`
			} `json:"net"`
		}
		code := call(t, ts, http.MethodGet, "/api/balances", aliceToken, nil, &resp)
		if code != http.StatusOK {
			t.Fatalf("Global balances: got status %d", code)
		}
		if resp.Net.Paise != 0 {
			t.Errorf("Alice net: got %d, want 0", resp.Net.Paise)
		}
	})
}
