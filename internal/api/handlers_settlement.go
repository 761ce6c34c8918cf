package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hisaab-app/backend/internal/middleware"
	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/money"
	"github.com/hisaab-app/backend/internal/upi"
)

type createSettlementRequest struct {
	ToMemberID string `json:"to_member_id"`
	// Amount is a decimal rupee string, e.g. "123.45".
	Amount string `json:"amount"`
	Method string `json:"method"`
}

type markPaidRequest struct {
	PaymentRef string `json:"payment_ref"`
}

type upiLinkResponse struct {
	SettlementID string `json:"settlement_id"`
	URI          string `json:"uri"`
	Note         string `json:"note"`
	PayeeHandle  string `json:"payee_handle"`
}

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req createSettlementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := money.ParseDecimalToPaise(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount: expected a positive decimal like 123.45")
		return
	}

	settlement, err := s.settlementSvc.Create(r.Context(), middleware.GetMemberID(r.Context()),
		groupID, req.ToMemberID, amount, models.SettlementMethod(req.Method))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSettlementJSON(settlement))
}

// handleCreateGlobalSettlement acts on a cross-group suggestion. A settlement
// record always belongs to one group, so the transfer is pinned to the
// earliest-created group the two members share.
func (s *Server) handleCreateGlobalSettlement(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetMemberID(r.Context())

	var req createSettlementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := money.ParseDecimalToPaise(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount: expected a positive decimal like 123.45")
		return
	}

	group, err := s.balanceSvc.ResolveSettlementGroup(r.Context(), actorID, req.ToMemberID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	settlement, err := s.settlementSvc.Create(r.Context(), actorID,
		group.ID, req.ToMemberID, amount, models.SettlementMethod(req.Method))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSettlementJSON(settlement))
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]
	actorID := middleware.GetMemberID(r.Context())

	// Membership gate reuses the group lookup path.
	if _, err := s.groupSvc.Get(r.Context(), actorID, groupID); err != nil {
		respondServiceError(w, err)
		return
	}

	settlements, err := s.store.ListSettlementsByGroup(r.Context(), groupID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]settlementJSON, len(settlements))
	for i := range settlements {
		out[i] = toSettlementJSON(&settlements[i])
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"settlements": out})
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	settlementID := mux.Vars(r)["id"]

	// The body is optional: marking paid without a reference is fine.
	var req markPaidRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	settlement, err := s.settlementSvc.MarkPaid(r.Context(), middleware.GetMemberID(r.Context()), settlementID, req.PaymentRef)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettlementJSON(settlement))
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	settlementID := mux.Vars(r)["id"]

	settlement, err := s.settlementSvc.Confirm(r.Context(), middleware.GetMemberID(r.Context()), settlementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettlementJSON(settlement))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	settlementID := mux.Vars(r)["id"]

	settlement, err := s.settlementSvc.Cancel(r.Context(), middleware.GetMemberID(r.Context()), settlementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettlementJSON(settlement))
}

// handleUPILink renders the payment handoff for a settlement. Only the payer
// has a use for it, and only while the settlement is still open.
func (s *Server) handleUPILink(w http.ResponseWriter, r *http.Request) {
	settlementID := mux.Vars(r)["id"]
	actorID := middleware.GetMemberID(r.Context())

	settlement, err := s.store.GetSettlement(r.Context(), settlementID)
	if err != nil {
		respondError(w, http.StatusNotFound, "settlement not found")
		return
	}
	if settlement.FromMemberID != actorID && settlement.ToMemberID != actorID {
		respondError(w, http.StatusForbidden, "not a party to this settlement")
		return
	}
	if settlement.Status.Terminal() {
		respondError(w, http.StatusConflict, "settlement is already "+string(settlement.Status))
		return
	}

	payee, err := s.store.GetMemberByID(r.Context(), settlement.ToMemberID)
	if err != nil {
		respondError(w, http.StatusNotFound, "payee not found")
		return
	}

	link, err := upi.ForSettlement(settlement, payee)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, upiLinkResponse{
		SettlementID: settlement.ID,
		URI:          link.URI,
		Note:         link.Note,
		PayeeHandle:  payee.UPIHandle,
	})
}
