// Package worker consumes member events from RabbitMQ.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-kitchensink/internal/domain/event"
	mailtpl "github.com/oksasatya/go-kitchensink/pkg/mailer/templates"
)

var errMalformed = errors.New("malformed member event")

// Sender is satisfied by mailer.Mailgun.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// WelcomeConsumer sends a welcome email for every member.registered event.
type WelcomeConsumer struct {
	Mailer      Sender
	CompanyName string
	AppName     string
	SupportURL  string
	SendTimeout time.Duration
	Logger      *logrus.Logger
}

// Run handles deliveries until ctx is cancelled or the channel is closed.
func (w *WelcomeConsumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle acks a sent email and drops malformed messages. A failed send is
// requeued once. It is dropped when it was already redelivered or when the
// sender reports the failure as permanent.
func (w *WelcomeConsumer) Handle(ctx context.Context, d amqp.Delivery) {
	ev, err := decode(d.Body)
	if err != nil {
		w.Logger.WithError(err).WithField("delivery_tag", d.DeliveryTag).Warn("dropping message")
		_ = d.Nack(false, false)
		return
	}
	log := w.Logger.WithFields(logrus.Fields{"member_id": ev.Member.ID, "email": ev.Member.Email})

	subject, text, html, err := mailtpl.Render(mailtpl.Welcome, mailtpl.WelcomeData{
		Name:         ev.Member.Name,
		Email:        ev.Member.Email,
		PhoneNumber:  ev.Member.PhoneNumber,
		MemberID:     ev.Member.ID,
		CompanyName:  w.CompanyName,
		AppName:      w.AppName,
		SupportURL:   w.SupportURL,
		RegisteredAt: ev.OccurredAt,
	})
	if err != nil {
		log.WithError(err).Error("render welcome failed")
		_ = d.Nack(false, false)
		return
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Mailer.Send(c, ev.Member.Email, subject, text, html); err != nil {
		if d.Redelivered || isPermanent(err) {
			log.WithError(err).WithField("redelivered", d.Redelivered).Error("send welcome failed; dropping message")
			_ = d.Nack(false, false)
			return
		}
		log.WithError(err).Warn("send welcome failed; requeueing")
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
	log.Info("welcome email sent")
}

// isPermanent reports errors such as *mailer.RejectedError that say a retry
// cannot succeed.
func isPermanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}

func decode(body []byte) (event.MemberRegistered, error) {
	var ev event.MemberRegistered
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, err
	}
	if ev.Type != event.TypeMemberRegistered || ev.Member.Email == "" {
		return ev, errMalformed
	}
	return ev, nil
}
