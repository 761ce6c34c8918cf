package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hisaab-app/backend/internal/middleware"
)

type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

type addMembersRequest struct {
	MemberIDs []string `json:"member_ids"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := s.groupSvc.Create(r.Context(), middleware.GetMemberID(r.Context()), req.Name, req.MemberIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGroupJSON(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groupSvc.List(r.Context(), middleware.GetMemberID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]groupJSON, len(groups))
	for i, g := range groups {
		out[i] = toGroupJSON(g)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"groups": out})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	group, err := s.groupSvc.Get(r.Context(), middleware.GetMemberID(r.Context()), groupID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupJSON(group))
}

func (s *Server) handleAddGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req addMembersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.MemberIDs) == 0 {
		respondError(w, http.StatusBadRequest, "member_ids is required")
		return
	}

	group, err := s.groupSvc.AddMembers(r.Context(), middleware.GetMemberID(r.Context()), groupID, req.MemberIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupJSON(group))
}
