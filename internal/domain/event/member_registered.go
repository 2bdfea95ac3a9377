package event

import (
	"time"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
)

const TypeMemberRegistered = "member.registered"

// MemberRegistered is published after a member has been persisted.
type MemberRegistered struct {
	Type       string        `json:"type"`
	Member     entity.Member `json:"member"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewMemberRegistered(m entity.Member) MemberRegistered {
	return MemberRegistered{
		Type:       TypeMemberRegistered,
		Member:     m,
		OccurredAt: time.Now().UTC(),
	}
}
