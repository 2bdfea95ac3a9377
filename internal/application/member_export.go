package application

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
)

// MemberSnapshot is the document written by the export command.
type MemberSnapshot struct {
	ExportedAt time.Time       `json:"exported_at"`
	Backend    string          `json:"backend"`
	Count      int             `json:"count"`
	Members    []entity.Member `json:"members"`
}

// ExportObjectName is the bucket path of a snapshot taken at t.
func ExportObjectName(t time.Time) string {
	return "exports/members-" + t.UTC().Format("20060102T150405Z") + ".json"
}

// WriteSnapshot encodes every member, in id order, to w.
func (s *Service) WriteSnapshot(ctx context.Context, w io.Writer, backend string, at time.Time) (int, error) {
	members, err := s.Export(ctx)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	snap := MemberSnapshot{ExportedAt: at.UTC(), Backend: backend, Count: len(members), Members: members}
	if err := enc.Encode(snap); err != nil {
		return 0, err
	}
	return len(members), nil
}
