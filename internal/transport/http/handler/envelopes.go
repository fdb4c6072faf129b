package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/contest-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidationEnvelope carries field-level validation failures, one message per
// offending field, matching the registration form 1:1.
type ValidationEnvelope struct {
	Error  string             `json:"error"`
	Fields domain.FieldErrors `json:"fields"`
}

// RegistrationEnvelope wraps a successful registration.
type RegistrationEnvelope struct {
	ContestantID string `json:"contestant_id"`
	Message      string `json:"message"`
}

// ContestantView is the public shape of a contestant.
type ContestantView struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	SecondLastName string `json:"second_last_name,omitempty"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	IsVerified     bool   `json:"is_verified"`
	CreatedAt      string `json:"created_at"`
}

// VerificationEnvelope wraps a successful verification.
type VerificationEnvelope struct {
	Message    string          `json:"message"`
	Contestant *ContestantView `json:"contestant"`
}

// PaginatedContestantsEnvelope wraps the admin contestant listing.
type PaginatedContestantsEnvelope struct {
	Count       int              `json:"count"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
	Contestants []ContestantView `json:"contestants"`
}

// WinnerEnvelope wraps winner views.
type WinnerEnvelope struct {
	Message string               `json:"message,omitempty"`
	Winner  *domain.WinnerRecord `json:"winner,omitempty"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Bearer   string `json:"Bearer,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ExportEnvelope wraps the contestant CSV export response.
type ExportEnvelope struct {
	URL string `json:"url"`
}

func toContestantView(c *domain.Contestant) *ContestantView {
	return &ContestantView{
		ID:             c.ContestantID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		SecondLastName: c.SecondLastName,
		FullName:       c.FullName(),
		Email:          c.Email,
		Phone:          c.Phone,
		IsVerified:     c.IsVerified,
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain errors onto HTTP status codes. Unexpected errors are
// logged and surfaced as an opaque 500.
func httpError(w http.ResponseWriter, err error) {
	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{
			Error:  "validation failed",
			Fields: fields,
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unexpected error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
