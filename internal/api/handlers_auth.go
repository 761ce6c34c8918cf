package api

import (
	"net/http"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	UPIHandle   string `json:"upi_handle"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Member memberJSON `json:"member"`
	Token  string     `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	member, token, err := s.authSvc.Register(r.Context(), req.Email, req.DisplayName, req.Password, req.UPIHandle)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Member: toMemberJSON(member), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	member, token, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Never distinguish "no such account" from "wrong password".
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Member: toMemberJSON(member), Token: token})
}
