package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/contest-api/internal/domain"
)

type Service interface {
	// Login checks credentials and returns a signed bearer token.
	Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Account, error)
	// SeedAdmin creates the administrator account if it does not exist yet.
	SeedAdmin(ctx context.Context, email, password string) error
}

type accountStore interface {
	Get(ctx context.Context, username string) (*domain.Account, error)
	CreateIfAbsent(ctx context.Context, a *domain.Account) (bool, error)
}

type jwtSigner interface {
	Sign(username, role string) (string, error)
}

type service struct {
	accounts    accountStore
	jwtProvider jwtSigner
}

type ServiceDeps struct {
	AccountRepo accountStore
	JWTProvider jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{accounts: deps.AccountRepo, jwtProvider: deps.JWTProvider}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Account, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	a, err := s.accounts.Get(ctx, username)
	if err != nil {
		// Same error for unknown account and bad password.
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if s.jwtProvider == nil {
		return "", nil, fmt.Errorf("token signing unavailable: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.jwtProvider.Sign(a.Username, a.Role)
	if err != nil {
		return "", nil, err
	}
	return bearer, a, nil
}

func (s *service) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.accounts.CreateIfAbsent(ctx, &domain.Account{
		Username:     strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return err
}
