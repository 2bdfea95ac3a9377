package messaging

import (
	"context"
	"time"

	"github.com/oksasatya/go-kitchensink/internal/domain/event"
)

const publishTimeout = 3 * time.Second

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MemberPublisher puts member events on the broker queue.
type MemberPublisher struct {
	pub JSONPublisher
}

func NewMemberPublisher(pub JSONPublisher) *MemberPublisher {
	return &MemberPublisher{pub: pub}
}

func (p *MemberPublisher) PublishMemberRegistered(ctx context.Context, ev event.MemberRegistered) error {
	c, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return p.pub.PublishJSON(c, ev)
}
