package handler

import (
	"encoding/json"
	"net/http"

	"github.com/contest-api/internal/application/registration"
	"github.com/contest-api/internal/domain"
)

// RegistrationHandler handles the public contest sign-up endpoint.
type RegistrationHandler struct {
	svc registration.Service
}

func NewRegistrationHandler(svc registration.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterContestantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegistrationEnvelope{
		ContestantID: c.ContestantID,
		Message:      "Thanks for registering! Check your inbox to verify your account.",
	})
}
