package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/contest-api/internal/domain"
)

// --- mock ---

type mockRegistrationSvc struct{ mock.Mock }

func (m *mockRegistrationSvc) Register(ctx context.Context, req domain.RegisterContestantRequest) (*domain.Contestant, error) {
	args := m.Called(ctx, req)
	if c, _ := args.Get(0).(*domain.Contestant); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func registerBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"first_name": "Juan",
		"last_name":  "Pérez",
		"email":      "JUAN@test.com",
		"phone":      "+56912345678",
	})
	require.NoError(t, err)
	return b
}

// --- tests ---

func TestRegister_Created(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Register", mock.Anything, mock.AnythingOfType("domain.RegisterContestantRequest")).Return(&domain.Contestant{
		ContestantID: "c-1",
		FirstName:    "Juan",
		LastName:     "Pérez",
		Email:        "juan@test.com",
		Phone:        "+56912345678",
		CreatedAt:    time.Now().UTC(),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/contestants", bytes.NewReader(registerBody(t)))
	rr := httptest.NewRecorder()
	NewRegistrationHandler(svc).Register(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp RegistrationEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "c-1", resp.ContestantID)
	assert.NotEmpty(t, resp.Message)
}

func TestRegister_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/contestants", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	NewRegistrationHandler(&mockRegistrationSvc{}).Register(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_ValidationFailure(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.FieldErrors{"email": "must be a valid email address"})

	req := httptest.NewRequest(http.MethodPost, "/v1/contestants", bytes.NewReader(registerBody(t)))
	rr := httptest.NewRecorder()
	NewRegistrationHandler(svc).Register(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var resp ValidationEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "email")
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockRegistrationSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrConflict)

	req := httptest.NewRequest(http.MethodPost, "/v1/contestants", bytes.NewReader(registerBody(t)))
	rr := httptest.NewRecorder()
	NewRegistrationHandler(svc).Register(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}
