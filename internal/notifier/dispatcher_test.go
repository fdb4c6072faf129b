package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contest-api/internal/domain"
)

// --- fakes ---

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
}

func (f *fakePublisher) Publish(ctx context.Context, subject, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, message)
	return nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	put    []domain.Notification
	sent   []string
	failed map[string]string
}

func newFakeOutbox() *fakeOutbox {
	return &fakeOutbox{failed: map[string]string{}}
}

func (f *fakeOutbox) Put(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put = append(f.put, *n)
	return nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, notificationID string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notificationID)
	return nil
}
func (f *fakeOutbox) MarkFailed(ctx context.Context, notificationID, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[notificationID] = detail
	return nil
}

// --- helpers ---

func testContestant() *domain.Contestant {
	return &domain.Contestant{
		ContestantID: "c-1",
		FirstName:    "Juan",
		LastName:     "Pérez",
		Email:        "juan@test.com",
		Phone:        "+56912345678",
	}
}

// --- tests ---

func TestNotifyVerification_DeliversEmail(t *testing.T) {
	mailer := &fakeMailer{}
	outbox := newFakeOutbox()

	d := New(mailer, nil, outbox, "https://contest.test", "Summer Raffle")
	d.NotifyVerification(testContestant(), "tok-abc")
	d.Close()

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "juan@test.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].subject, "Summer Raffle")
	assert.Contains(t, mailer.sent[0].body, "https://contest.test/verify?token=tok-abc")
	assert.Contains(t, mailer.sent[0].body, "Juan Pérez")

	require.Len(t, outbox.put, 1)
	assert.Equal(t, domain.NotificationVerification, outbox.put[0].Kind)
	assert.Len(t, outbox.sent, 1)
	assert.Empty(t, outbox.failed)
}

func TestNotifyWinner_PublishesAnnouncement(t *testing.T) {
	mailer := &fakeMailer{}
	publisher := &fakePublisher{}

	d := New(mailer, publisher, nil, "https://contest.test", "Summer Raffle")
	d.NotifyWinner(testContestant())
	d.Close()

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].subject, "Congratulations")
	require.Len(t, publisher.published, 1)
	assert.Contains(t, publisher.published[0], "Juan Pérez")
	assert.Contains(t, publisher.published[0], "juan@test.com")
}

func TestNotifyVerification_NoAnnouncement(t *testing.T) {
	mailer := &fakeMailer{}
	publisher := &fakePublisher{}

	d := New(mailer, publisher, nil, "https://contest.test", "Summer Raffle")
	d.NotifyVerification(testContestant(), "tok-abc")
	d.Close()

	assert.Empty(t, publisher.published, "verification jobs never touch the topic")
}

func TestDeliver_MailFailureRecorded(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("relay down")}
	outbox := newFakeOutbox()

	d := New(mailer, nil, outbox, "https://contest.test", "Summer Raffle")
	d.NotifyVerification(testContestant(), "tok-abc")
	d.Close()

	require.Len(t, outbox.put, 1)
	assert.Empty(t, outbox.sent)
	require.Len(t, outbox.failed, 1)
	assert.Equal(t, "relay down", outbox.failed[outbox.put[0].NotificationID])
}

func TestClose_DrainsQueue(t *testing.T) {
	mailer := &fakeMailer{}

	d := New(mailer, nil, nil, "https://contest.test", "Summer Raffle")
	for i := 0; i < 5; i++ {
		d.NotifyVerification(testContestant(), "tok-abc")
	}
	d.Close()

	assert.Len(t, mailer.sent, 5, "all enqueued jobs delivered before shutdown")
}
