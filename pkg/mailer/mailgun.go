package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends mail through a single client built by NewMailgun.
type Mailgun struct {
	Sender  string
	Timeout time.Duration
	client  *mg.MailgunImpl
}

// NewMailgun builds the client. apiBase overrides the endpoint, e.g.
// mg.APIBaseEU; empty keeps the library default.
func NewMailgun(domain, apiKey, sender, apiBase string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{Sender: sender, Timeout: 10 * time.Second, client: client}
}

// Send sends an email via Mailgun. html is optional; if provided it will be used as HTML body.
// A message Mailgun refuses outright is reported as *RejectedError.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return classify(err)
}

// RejectedError is a 4xx answer other than 408 and 429. Sending the same
// message again gets the same answer.
type RejectedError struct {
	Status int
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("mailgun rejected message (status %d): %v", e.Status, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// Permanent lets consumers drop the message instead of requeueing it.
func (e *RejectedError) Permanent() bool { return true }

func classify(err error) error {
	var ure *mg.UnexpectedResponseError
	if !errors.As(err, &ure) {
		return err
	}
	switch {
	case ure.Actual == http.StatusRequestTimeout, ure.Actual == http.StatusTooManyRequests:
		return err
	case ure.Actual >= 400 && ure.Actual < 500:
		return &RejectedError{Status: ure.Actual, Err: err}
	}
	return err
}
