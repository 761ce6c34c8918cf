package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hisaab-app/backend/internal/middleware"
	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
	"github.com/hisaab-app/backend/internal/service"
)

type shareRequest struct {
	MemberID string `json:"member_id"`
	// Amount is a decimal rupee string, e.g. "123.45".
	Amount string `json:"amount"`
}

type createExpenseRequest struct {
	PayerID     string `json:"payer_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	// SplitAmong selects an equal split across the listed members; empty
	// with no shares means the whole group.
	SplitAmong []string       `json:"split_among"`
	Shares     []shareRequest `json:"shares"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req createExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := money.ParseDecimalToPaise(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount: expected a positive decimal like 123.45")
		return
	}

	in := service.ExpenseInput{
		PayerID:     req.PayerID,
		Amount:      amount,
		Description: req.Description,
		SplitAmong:  req.SplitAmong,
	}
	if req.PayerID == "" {
		in.PayerID = middleware.GetMemberID(r.Context())
	}
	for _, sh := range req.Shares {
		owed, err := money.ParseDecimalToPaise(sh.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid share amount for "+sh.MemberID)
			return
		}
		in.Shares = append(in.Shares, models.Split{MemberID: sh.MemberID, Owed: owed})
	}

	expense, err := s.expenseSvc.Create(r.Context(), middleware.GetMemberID(r.Context()), groupID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseJSON(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	expenses, err := s.expenseSvc.List(r.Context(), middleware.GetMemberID(r.Context()), groupID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]expenseJSON, len(expenses))
	for i := range expenses {
		out[i] = toExpenseJSON(&expenses[i])
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"expenses": out})
}
