// Package notifier is the asynchronous outbound notification sink. Services
// enqueue jobs and return immediately; a background worker delivers them,
// records the outcome, and never propagates failures back to callers.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/contest-api/internal/domain"
	"github.com/contest-api/internal/infrastructure/smtp"
	"github.com/contest-api/internal/infrastructure/sns"
	"github.com/contest-api/internal/pkg/id"
)

// outboxStore records each job and its delivery outcome.
type outboxStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	MarkSent(ctx context.Context, notificationID string, sentAt time.Time) error
	MarkFailed(ctx context.Context, notificationID, detail string) error
}

type job struct {
	notificationID string
	kind           string
	to             string
	subject        string
	body           string
	announcement   string // non-empty winner jobs also go to the SNS topic
}

// Dispatcher fans enqueued jobs out to SMTP (and SNS for winner
// announcements) from a single worker goroutine, paced by a token bucket so a
// registration burst cannot flood the mail relay.
type Dispatcher struct {
	mailer      smtp.Mailer
	publisher   sns.Publisher // nil disables topic announcements
	outbox      outboxStore   // nil disables job records
	limiter     *rate.Limiter
	frontendURL string
	contestName string

	jobs chan job
	done chan struct{}
}

func New(mailer smtp.Mailer, publisher sns.Publisher, outbox outboxStore, frontendURL, contestName string) *Dispatcher {
	d := &Dispatcher{
		mailer:      mailer,
		publisher:   publisher,
		outbox:      outbox,
		limiter:     rate.NewLimiter(rate.Limit(5), 10),
		frontendURL: frontendURL,
		contestName: contestName,
		jobs:        make(chan job, 256),
		done:        make(chan struct{}),
	}
	go d.run()
	return d
}

// NotifyVerification enqueues the verification email for a new registration.
// Never blocks: when the queue is full the job is dropped with a warning.
func (d *Dispatcher) NotifyVerification(c *domain.Contestant, token string) {
	url := fmt.Sprintf("%s/verify?token=%s", d.frontendURL, token)
	d.enqueue(job{
		notificationID: id.New(),
		kind:           domain.NotificationVerification,
		to:             c.Email,
		subject:        fmt.Sprintf("[%s] Verify your email", d.contestName),
		body: fmt.Sprintf(
			"Hello %s,\n\nTo enter the %s, verify your email address:\n\n%s\n\nThis link expires in 2 hours.",
			c.FullName(), d.contestName, url),
	})
}

// NotifyWinner enqueues the winner email and an SNS topic announcement.
func (d *Dispatcher) NotifyWinner(c *domain.Contestant) {
	d.enqueue(job{
		notificationID: id.New(),
		kind:           domain.NotificationWinner,
		to:             c.Email,
		subject:        fmt.Sprintf("Congratulations! You won the %s", d.contestName),
		body: fmt.Sprintf(
			"Hello %s,\n\nYou have been selected as the winner of the %s.\nWe will contact you shortly to arrange your prize.",
			c.FullName(), d.contestName),
		announcement: fmt.Sprintf("%s winner drawn: %s <%s>", d.contestName, c.FullName(), c.Email),
	})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
	default:
		slog.Warn("notification queue full, dropping job", "kind", j.kind, "to", j.to)
	}
}

// Close drains pending jobs and stops the worker.
func (d *Dispatcher) Close() {
	close(d.jobs)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.jobs {
		if err := d.limiter.Wait(context.Background()); err != nil {
			return
		}
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if d.outbox != nil {
		n := &domain.Notification{
			NotificationID: j.notificationID,
			Kind:           j.kind,
			Recipient:      j.to,
			Subject:        j.subject,
			Status:         domain.NotificationPending,
			CreatedAt:      time.Now().UTC(),
		}
		if err := d.outbox.Put(ctx, n); err != nil {
			slog.Warn("failed to record notification job", "id", j.notificationID, "err", err)
		}
	}

	if err := d.mailer.SendEmail(j.to, j.subject, j.body); err != nil {
		slog.Error("failed to send notification email", "kind", j.kind, "to", j.to, "err", err)
		d.markFailed(ctx, j.notificationID, err)
		return
	}

	if j.announcement != "" && d.publisher != nil {
		if err := d.publisher.Publish(ctx, j.subject, j.announcement); err != nil {
			slog.Error("failed to publish announcement", "kind", j.kind, "err", err)
		}
	}

	if d.outbox != nil {
		if err := d.outbox.MarkSent(ctx, j.notificationID, time.Now().UTC()); err != nil {
			slog.Warn("failed to mark notification sent", "id", j.notificationID, "err", err)
		}
	}
}

func (d *Dispatcher) markFailed(ctx context.Context, notificationID string, cause error) {
	if d.outbox == nil {
		return
	}
	if err := d.outbox.MarkFailed(ctx, notificationID, cause.Error()); err != nil {
		slog.Warn("failed to mark notification failed", "id", notificationID, "err", err)
	}
}
