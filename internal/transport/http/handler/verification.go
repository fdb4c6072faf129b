package handler

import (
	"encoding/json"
	"net/http"

	"github.com/contest-api/internal/application/verification"
	"github.com/contest-api/internal/domain"
	"github.com/contest-api/internal/pkg/validate"
)

// VerificationHandler handles the public email-verification endpoint.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	c, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerificationEnvelope{
		Message:    "Your account is active. You are now entered in the draw.",
		Contestant: toContestantView(c),
	})
}
