package verification

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/contest-api/internal/domain"
)

// Password policy bounds. The upper bound is bcrypt's input limit.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

type Service interface {
	Verify(ctx context.Context, req domain.VerifyEmailRequest) (*domain.Contestant, error)
}

type contestantStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Contestant, error)
	MarkVerified(ctx context.Context, email string) error
	LinkAccount(ctx context.Context, email, username string) error
}

type tokenStore interface {
	Get(ctx context.Context, token string) (*domain.VerificationToken, error)
	Consume(ctx context.Context, token string, usedAt time.Time) error
}

type accountStore interface {
	CreateIfAbsent(ctx context.Context, a *domain.Account) (bool, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

type service struct {
	contestants contestantStore
	tokens      tokenStore
	accounts    accountStore
	now         func() time.Time
}

type ServiceDeps struct {
	ContestantRepo contestantStore
	TokenRepo      tokenStore
	AccountRepo    accountStore
	Now            func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		contestants: deps.ContestantRepo,
		tokens:      deps.TokenRepo,
		accounts:    deps.AccountRepo,
		now:         now,
	}
}

// Verify checks the token and establishes credentials in one step. The
// preconditions run in a fixed order so each failure mode keeps its own
// distinct, user-facing error. A contestant that is already verified may
// verify again with a fresh token to reset their password; each token is
// still strictly single-use.
func (s *service) Verify(ctx context.Context, req domain.VerifyEmailRequest) (*domain.Contestant, error) {
	if req.Password != req.PasswordConfirm {
		return nil, domain.FieldErrors{"password_confirm": "passwords do not match"}
	}
	if len(req.Password) < minPasswordLen {
		return nil, domain.FieldErrors{"password": fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}
	if len(req.Password) > maxPasswordLen {
		return nil, domain.FieldErrors{"password": fmt.Sprintf("must be at most %d characters", maxPasswordLen)}
	}

	t, err := s.tokens.Get(ctx, req.Token)
	if err != nil {
		return nil, fmt.Errorf("invalid verification token: %w", domain.ErrNotFound)
	}
	if t.UsedAt != nil {
		return nil, fmt.Errorf("verification token already used: %w", domain.ErrConflict)
	}
	now := s.now().UTC()
	if t.IsExpired(now) {
		return nil, fmt.Errorf("verification token has expired: %w", domain.ErrExpired)
	}

	// Consume first: the compare-and-set on used_at elects a single winner
	// among concurrent calls, and only the winner applies the effects below.
	// The effects themselves are idempotent, so a retry after a crash (with
	// a fresh token) converges to the same state.
	if err := s.tokens.Consume(ctx, t.Token, now); err != nil {
		return nil, err
	}

	c, err := s.contestants.GetByEmail(ctx, t.ContestantEmail)
	if err != nil {
		return nil, err
	}

	if !c.IsVerified {
		if err := s.contestants.MarkVerified(ctx, c.Email); err != nil {
			return nil, err
		}
		c.IsVerified = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	username := c.Email // already lowercased at registration
	created, err := s.accounts.CreateIfAbsent(ctx, &domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleContestant,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// Existing account: overwrite the password, re-verification with a
		// fresh token is the supported password reset path.
		if err := s.accounts.UpdatePassword(ctx, username, string(hash)); err != nil {
			return nil, err
		}
	}

	if c.AccountUsername != username {
		if err := s.contestants.LinkAccount(ctx, c.Email, username); err != nil {
			return nil, err
		}
		c.AccountUsername = username
	}

	return c, nil
}
