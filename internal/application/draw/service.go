package draw

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/contest-api/internal/domain"
)

type Service interface {
	// ViewWinner returns the persisted winner record. Pure read; returns
	// domain.ErrNotFound while no draw has happened.
	ViewWinner(ctx context.Context) (*domain.WinnerRecord, error)
	// DrawWinner selects one verified contestant uniformly at random and
	// persists the singleton winner record. At most one call ever succeeds.
	DrawWinner(ctx context.Context) (*domain.WinnerRecord, error)
}

type winnerStore interface {
	Get(ctx context.Context) (*domain.WinnerRecord, error)
	PutNew(ctx context.Context, w *domain.WinnerRecord) error
}

type contestantStore interface {
	ScanVerified(ctx context.Context) ([]domain.Contestant, error)
}

type notifier interface {
	NotifyWinner(c *domain.Contestant)
}

type service struct {
	winners     winnerStore
	contestants contestantStore
	notifier    notifier
	pick        func(n int) int
}

type ServiceDeps struct {
	WinnerRepo     winnerStore
	ContestantRepo contestantStore
	Notifier       notifier
	// Pick returns a uniform random index in [0, n). Defaults to a
	// crypto/rand source; tests inject a deterministic one.
	Pick func(n int) int
}

func NewService(deps ServiceDeps) Service {
	pick := deps.Pick
	if pick == nil {
		pick = cryptoPick
	}
	return &service{
		winners:     deps.WinnerRepo,
		contestants: deps.ContestantRepo,
		notifier:    deps.Notifier,
		pick:        pick,
	}
}

func (s *service) ViewWinner(ctx context.Context) (*domain.WinnerRecord, error) {
	return s.winners.Get(ctx)
}

func (s *service) DrawWinner(ctx context.Context) (*domain.WinnerRecord, error) {
	// Friendly pre-check; the conditional insert below is the real guard.
	if _, err := s.winners.Get(ctx); err == nil {
		return nil, fmt.Errorf("draw already performed: %w", domain.ErrConflict)
	}

	pool, err := s.contestants.ScanVerified(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("no eligible contestants: %w", domain.ErrBadRequest)
	}

	winner := pool[s.pick(len(pool))]
	record := &domain.WinnerRecord{
		ContestantID:    winner.ContestantID,
		ContestantEmail: winner.Email,
		FullName:        winner.FullName(),
		Phone:           winner.Phone,
		DrawnAt:         time.Now().UTC(),
	}
	// The existence check and the insert are one atomic decision point at
	// the storage layer: concurrent draws race on the conditional put and
	// every loser gets domain.ErrConflict.
	if err := s.winners.PutNew(ctx, record); err != nil {
		return nil, err
	}

	s.notifier.NotifyWinner(&winner)
	return record, nil
}

// cryptoPick draws a uniform index from crypto/rand. rand.Int performs
// rejection sampling, so the result is uniform over [0, n) with no modulo
// bias.
func cryptoPick(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
