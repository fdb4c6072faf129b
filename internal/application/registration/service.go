package registration

import (
	"context"
	"errors"
	"time"

	"github.com/contest-api/internal/domain"
	"github.com/contest-api/internal/pkg/id"
	pkgtoken "github.com/contest-api/internal/pkg/token"
	"github.com/contest-api/internal/pkg/validate"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterContestantRequest) (*domain.Contestant, error)
}

type contestantStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Contestant, error)
	PutNew(ctx context.Context, c *domain.Contestant) error
}

type tokenStore interface {
	Put(ctx context.Context, t *domain.VerificationToken) error
}

type notifier interface {
	NotifyVerification(c *domain.Contestant, token string)
}

type service struct {
	contestants contestantStore
	tokens      tokenStore
	notifier    notifier
}

type ServiceDeps struct {
	ContestantRepo contestantStore
	TokenRepo      tokenStore
	Notifier       notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		contestants: deps.ContestantRepo,
		tokens:      deps.TokenRepo,
		notifier:    deps.Notifier,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterContestantRequest) (*domain.Contestant, error) {
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}

	// Advisory duplicate check for a friendly field-level error. The
	// conditional insert below remains the authoritative guard against a
	// race between this check and the write.
	if _, err := s.contestants.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.FieldErrors{"email": "this email is already registered"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Contestant{
		ContestantID:   id.New(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		SecondLastName: req.SecondLastName,
		Email:          req.Email,
		Phone:          req.Phone,
		IsVerified:     false,
		CreatedAt:      now,
	}
	if err := s.contestants.PutNew(ctx, c); err != nil {
		// Lost the race against a concurrent registration: surface the same
		// field-level error as the advisory check above.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.FieldErrors{"email": "this email is already registered"}
		}
		return nil, err
	}

	t := &domain.VerificationToken{
		Token:           pkgtoken.NewVerificationToken(),
		ContestantEmail: c.Email,
		CreatedAt:       now,
		ExpiresAt:       now.Add(domain.VerificationTokenTTL).Unix(),
	}
	if err := s.tokens.Put(ctx, t); err != nil {
		return nil, err
	}

	s.notifier.NotifyVerification(c, t.Token)
	return c, nil
}
