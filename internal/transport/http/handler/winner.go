package handler

import (
	"net/http"

	"github.com/contest-api/internal/application/draw"
)

// WinnerHandler handles the privileged winner view and draw endpoints.
type WinnerHandler struct {
	svc draw.Service
}

func NewWinnerHandler(svc draw.Service) *WinnerHandler {
	return &WinnerHandler{svc: svc}
}

func (h *WinnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.ViewWinner(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WinnerEnvelope{Winner: record})
}

func (h *WinnerHandler) Draw(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.DrawWinner(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, WinnerEnvelope{
		Message: "Winner selected: " + record.FullName,
		Winner:  record,
	})
}
