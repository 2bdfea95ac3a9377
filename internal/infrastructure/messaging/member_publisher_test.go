package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/event"
)

type capturePublisher struct {
	body     []byte
	deadline bool
	err      error
}

func (c *capturePublisher) PublishJSON(ctx context.Context, body any) error {
	_, c.deadline = ctx.Deadline()
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	c.body = b
	return c.err
}

func TestPublishMemberRegistered(t *testing.T) {
	cp := &capturePublisher{}
	p := NewMemberPublisher(cp)
	m := entity.Member{ID: "1", Name: "John Smith", Email: "john.smith@mailinator.com", PhoneNumber: "2125551212"}
	ev := event.MemberRegistered{Type: event.TypeMemberRegistered, Member: m, OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	require.NoError(t, p.PublishMemberRegistered(context.Background(), ev))
	assert.True(t, cp.deadline)
	assert.JSONEq(t, `{
		"type":"member.registered",
		"member":{"id":"1","name":"John Smith","email":"john.smith@mailinator.com","phoneNumber":"2125551212"},
		"occurred_at":"2024-01-02T03:04:05Z"
	}`, string(cp.body))
}

func TestPublishMemberRegistered_Error(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewMemberPublisher(&capturePublisher{err: boom})
	err := p.PublishMemberRegistered(context.Background(), event.NewMemberRegistered(entity.Member{ID: "1"}))
	assert.ErrorIs(t, err, boom)
}
