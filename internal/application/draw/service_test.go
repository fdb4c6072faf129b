package draw

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/contest-api/internal/domain"
)

// --- mocks ---

type mockWinnerStore struct{ mock.Mock }

func (m *mockWinnerStore) Get(ctx context.Context) (*domain.WinnerRecord, error) {
	args := m.Called(ctx)
	if w, _ := args.Get(0).(*domain.WinnerRecord); w != nil {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockWinnerStore) PutNew(ctx context.Context, w *domain.WinnerRecord) error {
	return m.Called(ctx, w).Error(0)
}

type mockContestantStore struct{ mock.Mock }

func (m *mockContestantStore) ScanVerified(ctx context.Context) ([]domain.Contestant, error) {
	args := m.Called(ctx)
	if cs, _ := args.Get(0).([]domain.Contestant); cs != nil {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyWinner(c *domain.Contestant) {
	m.Called(c)
}

// --- helpers ---

func pool() []domain.Contestant {
	return []domain.Contestant{
		{ContestantID: "c-1", FirstName: "Juan", LastName: "Pérez", Email: "juan@test.com", Phone: "+56912345678", IsVerified: true},
		{ContestantID: "c-2", FirstName: "Ana", LastName: "Soto", Email: "ana@test.com", Phone: "+56987654321", IsVerified: true},
		{ContestantID: "c-3", FirstName: "Luis", LastName: "Rojas", Email: "luis@test.com", Phone: "+56911122233", IsVerified: true},
	}
}

// --- DrawWinner tests ---

func TestDrawWinner_PicksFromPool(t *testing.T) {
	ws := &mockWinnerStore{}
	cs := &mockContestantStore{}
	n := &mockNotifier{}

	ws.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)
	cs.On("ScanVerified", mock.Anything).Return(pool(), nil)
	ws.On("PutNew", mock.Anything, mock.AnythingOfType("*domain.WinnerRecord")).Return(nil)
	n.On("NotifyWinner", mock.AnythingOfType("*domain.Contestant")).Return()

	var pickedN int
	svc := NewService(ServiceDeps{
		WinnerRepo:     ws,
		ContestantRepo: cs,
		Notifier:       n,
		Pick: func(n int) int {
			pickedN = n
			return 1
		},
	})

	record, err := svc.DrawWinner(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, pickedN, "pick must range over the whole verified pool")
	assert.Equal(t, "c-2", record.ContestantID)
	assert.Equal(t, "ana@test.com", record.ContestantEmail)
	assert.Equal(t, "Ana Soto", record.FullName)
	assert.Equal(t, "+56987654321", record.Phone)
	assert.False(t, record.DrawnAt.IsZero())
	ws.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestDrawWinner_AlreadyDrawn(t *testing.T) {
	ws := &mockWinnerStore{}
	ws.On("Get", mock.Anything).Return(&domain.WinnerRecord{ContestantID: "c-1"}, nil)

	svc := NewService(ServiceDeps{WinnerRepo: ws, ContestantRepo: &mockContestantStore{}, Notifier: &mockNotifier{}})
	_, err := svc.DrawWinner(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestDrawWinner_EmptyPool(t *testing.T) {
	ws := &mockWinnerStore{}
	cs := &mockContestantStore{}
	ws.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)
	cs.On("ScanVerified", mock.Anything).Return([]domain.Contestant{}, nil)

	svc := NewService(ServiceDeps{WinnerRepo: ws, ContestantRepo: cs, Notifier: &mockNotifier{}})
	_, err := svc.DrawWinner(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	ws.AssertNotCalled(t, "PutNew", mock.Anything, mock.Anything)
}

func TestDrawWinner_LostRace(t *testing.T) {
	// Another draw landed between the pre-check and the conditional insert.
	ws := &mockWinnerStore{}
	cs := &mockContestantStore{}
	n := &mockNotifier{}

	ws.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)
	cs.On("ScanVerified", mock.Anything).Return(pool(), nil)
	ws.On("PutNew", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	svc := NewService(ServiceDeps{
		WinnerRepo:     ws,
		ContestantRepo: cs,
		Notifier:       n,
		Pick:           func(int) int { return 0 },
	})
	_, err := svc.DrawWinner(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	n.AssertNotCalled(t, "NotifyWinner", mock.Anything)
}

func TestCryptoPick_InRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := cryptoPick(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

// --- ViewWinner tests ---

func TestViewWinner_NotDrawnYet(t *testing.T) {
	ws := &mockWinnerStore{}
	ws.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)

	svc := NewService(ServiceDeps{WinnerRepo: ws, ContestantRepo: &mockContestantStore{}, Notifier: &mockNotifier{}})
	_, err := svc.ViewWinner(context.Background())

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestViewWinner_ReturnsRecord(t *testing.T) {
	ws := &mockWinnerStore{}
	ws.On("Get", mock.Anything).Return(&domain.WinnerRecord{ContestantID: "c-2", FullName: "Ana Soto"}, nil)

	svc := NewService(ServiceDeps{WinnerRepo: ws, ContestantRepo: &mockContestantStore{}, Notifier: &mockNotifier{}})
	w, err := svc.ViewWinner(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Ana Soto", w.FullName)
}
