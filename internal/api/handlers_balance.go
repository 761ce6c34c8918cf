package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hisaab-app/backend/internal/middleware"
)

type groupBalancesResponse struct {
	GroupID   string         `json:"group_id"`
	Balances  []balanceJSON  `json:"balances"`
	Transfers []transferJSON `json:"suggested_transfers"`
}

type globalBalancesResponse struct {
	MemberID     string         `json:"member_id"`
	Net          amountJSON     `json:"net"`
	Counterparts []balanceJSON  `json:"counterparts"`
	Transfers    []transferJSON `json:"suggested_transfers"`
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	view, err := s.balanceSvc.ComputeGroupBalances(r.Context(), middleware.GetMemberID(r.Context()), groupID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groupBalancesResponse{
		GroupID:   view.GroupID,
		Balances:  toBalanceJSON(view.Balances),
		Transfers: toTransferJSON(view.Transfers),
	})
}

func (s *Server) handleGlobalBalances(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberID(r.Context())

	view, err := s.balanceSvc.ComputeGlobalBalances(r.Context(), memberID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, globalBalancesResponse{
		MemberID:     view.MemberID,
		Net:          amount(view.Net),
		Counterparts: toBalanceJSON(view.Counterparts),
		Transfers:    toTransferJSON(view.Transfers),
	})
}
