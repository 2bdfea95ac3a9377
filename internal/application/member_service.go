package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/event"
	repo "github.com/oksasatya/go-kitchensink/internal/domain/repository"
	"github.com/oksasatya/go-kitchensink/pkg/validation"
)

// Registration outcomes reported to the RegistrationRecorder.
const (
	OutcomeRegistered = "registered"
	OutcomeInvalid    = "invalid"
	OutcomeDuplicate  = "duplicate"
	OutcomeError      = "error"
)

// MemberCache is the read-through list of members ordered by name.
type MemberCache interface {
	Members(ctx context.Context) ([]entity.Member, error)
	Invalidate(ctx context.Context) error
}

// MemberIndex is the free-text search mirror of the member store.
type MemberIndex interface {
	Put(ctx context.Context, m entity.Member) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.Member, error)
	Clear(ctx context.Context) error
}

type EventPublisher interface {
	PublishMemberRegistered(ctx context.Context, ev event.MemberRegistered) error
}

type RegistrationRecorder interface {
	RecordRegistration(outcome string)
}

// Service implements member registration and lookups. Cache, Index, Events
// and Metrics are optional; a nil value skips that step.
type Service struct {
	Repo    repo.MemberRepository
	Cache   MemberCache
	Index   MemberIndex
	Events  EventPublisher
	Metrics RegistrationRecorder
	Logger  *logrus.Logger
}

func NewService(r repo.MemberRepository, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Logger: logger}
}

// Query filters and pages the member list.
type Query struct {
	Name   string
	Domain string
	Sort   repo.Sort
	Page   int
	Size   int
}

// Register validates the candidate, rejects a taken email and persists it.
func (s *Service) Register(ctx context.Context, candidate entity.Member) (*entity.Member, error) {
	m := entity.Member{
		Name:        strings.TrimSpace(candidate.Name),
		Email:       strings.TrimSpace(candidate.Email),
		PhoneNumber: strings.TrimSpace(candidate.PhoneNumber),
	}

	if err := validation.Struct(m); err != nil {
		s.record(OutcomeInvalid)
		return nil, &ValidationError{Fields: validation.ToDetails(err)}
	}

	_, err := s.Repo.FindByEmail(ctx, m.Email)
	switch {
	case err == nil:
		s.record(OutcomeDuplicate)
		return nil, &DuplicateEmailError{Email: m.Email}
	case !errors.Is(err, repo.ErrNotFound):
		s.record(OutcomeError)
		return nil, fmt.Errorf("check email: %w", err)
	}

	if err := s.Repo.Save(ctx, &m); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			s.record(OutcomeDuplicate)
			return nil, &DuplicateEmailError{Email: m.Email}
		}
		s.record(OutcomeError)
		return nil, fmt.Errorf("save member: %w", err)
	}

	s.afterRegister(ctx, m)
	s.record(OutcomeRegistered)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"member_id": m.ID, "email": m.Email}).Info("member registered")
	}
	return &m, nil
}

// afterRegister runs the follow-up steps of a registration. None of them
// can fail the registration itself.
func (s *Service) afterRegister(ctx context.Context, m entity.Member) {
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			s.warn(err, "invalidate member cache", m.ID)
		}
	}
	if s.Index != nil {
		if err := s.Index.Put(ctx, m); err != nil {
			s.warn(err, "index member", m.ID)
		}
	}
	if s.Events != nil {
		if err := s.Events.PublishMemberRegistered(ctx, event.NewMemberRegistered(m)); err != nil {
			s.warn(err, "publish member registered", m.ID)
		}
	}
}

func (s *Service) FindByID(ctx context.Context, id string) (*entity.Member, error) {
	m, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// FindAll returns every member ordered by name.
func (s *Service) FindAll(ctx context.Context) ([]entity.Member, error) {
	if s.Cache != nil {
		return s.Cache.Members(ctx)
	}
	return s.Repo.FindAllSorted(ctx, repo.Sort{Field: repo.SortByName})
}

func (s *Service) List(ctx context.Context, q Query) (repo.Page, error) {
	req := repo.PageRequest{Page: q.Page, Size: q.Size, Sort: q.Sort}.Normalize()
	if q.Domain == "" {
		ex := repo.Example{Sample: entity.Member{Name: q.Name}, IgnoreCase: true}
		return s.Repo.FindPageByExample(ctx, ex, req)
	}

	items, err := s.Repo.FindByEmailDomain(ctx, q.Domain)
	if err != nil {
		return repo.Page{}, err
	}
	if q.Name != "" {
		ex := repo.Example{Sample: entity.Member{Name: q.Name}, IgnoreCase: true}
		kept := items[:0]
		for _, m := range items {
			if ex.Matches(m) {
				kept = append(kept, m)
			}
		}
		items = kept
	}
	repo.SortMembers(items, req.Sort)
	return repo.Paginate(items, req), nil
}

func (s *Service) FindByName(ctx context.Context, fragment string) ([]entity.Member, error) {
	return s.Repo.FindByNameContainingIgnoreCase(ctx, fragment)
}

func (s *Service) FindByEmailDomain(ctx context.Context, domain string) ([]entity.Member, error) {
	return s.Repo.FindByEmailDomain(ctx, domain)
}

// Search queries the search index, or the name lookup when no index is configured.
func (s *Service) Search(ctx context.Context, q string, size int) ([]entity.Member, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Member{}, nil
	}
	if s.Index != nil {
		return s.Index.Search(ctx, q, size)
	}
	items, err := s.Repo.FindByNameContainingIgnoreCase(ctx, q)
	if err != nil {
		return nil, err
	}
	if size > 0 && len(items) > size {
		items = items[:size]
	}
	return items, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.Repo.Count(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			s.warn(err, "invalidate member cache", id)
		}
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.warn(err, "remove member from index", id)
		}
	}
	return nil
}

// Reset deletes every member, then empties the cache and the search index.
// Cache and index failures are returned.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.Repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate member cache: %w", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.Clear(ctx); err != nil {
			return fmt.Errorf("clear member index: %w", err)
		}
	}
	if s.Logger != nil {
		s.Logger.Info("members reset")
	}
	return nil
}

// Export returns all members in id order.
func (s *Service) Export(ctx context.Context) ([]entity.Member, error) {
	return s.Repo.FindAllSorted(ctx, repo.Sort{Field: repo.SortByID})
}

func (s *Service) record(outcome string) {
	if s.Metrics != nil {
		s.Metrics.RecordRegistration(outcome)
	}
}

func (s *Service) warn(err error, step, memberID string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithField("member_id", memberID).Warn(step + " failed")
}
