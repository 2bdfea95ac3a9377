package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailgunAPIBase(t *testing.T) {
	const relay = "https://mail-relay.example.internal"
	custom := NewMailgun("mg.example.com", "key", "Kitchensink <no-reply@example.com>", relay)
	assert.Equal(t, relay, custom.client.APIBase())

	def := NewMailgun("mg.example.com", "key", "Kitchensink <no-reply@example.com>", "")
	assert.Equal(t, mg.NewMailgun("mg.example.com", "key").APIBase(), def.client.APIBase())
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("dial tcp: connection refused")
	assert.Same(t, plain, classify(plain))

	for _, status := range []int{http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusBadGateway} {
		err := fmt.Errorf("send: %w", &mg.UnexpectedResponseError{Actual: status})
		var rejected *RejectedError
		assert.False(t, errors.As(classify(err), &rejected), status)
	}

	cause := &mg.UnexpectedResponseError{Actual: http.StatusBadRequest}
	err := classify(cause)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.Status)
	assert.True(t, rejected.Permanent())
	assert.ErrorIs(t, err, cause)
}

func TestSendHonoursCancelledContext(t *testing.T) {
	m := NewMailgun("mg.example.com", "key", "no-reply@example.com", "http://127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, "john@example.com", "hi", "text", "")
	require.Error(t, err)
	var rejected *RejectedError
	assert.False(t, errors.As(err, &rejected))
}
