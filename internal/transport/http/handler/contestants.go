package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/contest-api/internal/application/contestant"
)

// ContestantHandler handles the privileged contestant listing and export.
type ContestantHandler struct {
	svc contestant.Service
}

func NewContestantHandler(svc contestant.Service) *ContestantHandler {
	return &ContestantHandler{svc: svc}
}

func (h *ContestantHandler) List(w http.ResponseWriter, r *http.Request) {
	q := contestant.ListQuery{
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("verified"); v != "" {
		verified := strings.EqualFold(v, "true")
		q.Verified = &verified
	}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.svc.List(r.Context(), q)
	if err != nil {
		httpError(w, err)
		return
	}
	views := make([]ContestantView, len(result.Contestants))
	for i := range result.Contestants {
		views[i] = *toContestantView(&result.Contestants[i])
	}
	writeJSON(w, http.StatusOK, PaginatedContestantsEnvelope{
		Count:       result.Total,
		Page:        result.Page,
		PageSize:    result.PageSize,
		Contestants: views,
	})
}

func (h *ContestantHandler) Export(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.ExportCSV(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExportEnvelope{URL: url})
}
