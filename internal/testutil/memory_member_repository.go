package testutil

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
)

// MemoryMemberRepository is an in-memory repository.MemberRepository for tests.
// It enforces the unique email constraint like the real stores do.
type MemoryMemberRepository struct {
	mu      sync.RWMutex
	members []entity.Member
	nextID  int64

	// SaveErr, when set, is returned by Save before anything is stored.
	SaveErr error
	// FindErr, when set, is returned by every lookup.
	FindErr error
}

// NewMemoryMemberRepository creates a repository seeded with the given members.
func NewMemoryMemberRepository(seed ...entity.Member) *MemoryMemberRepository {
	r := &MemoryMemberRepository{}
	for _, m := range seed {
		m.ID = ""
		_ = r.Save(context.Background(), &m)
	}
	return r
}

func (r *MemoryMemberRepository) FindByID(_ context.Context, id string) (*entity.Member, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(func(m entity.Member) bool { return m.ID == id }); i >= 0 {
		m := r.members[i]
		return &m, nil
	}
	return nil, repository.ErrNotFound
}

func (r *MemoryMemberRepository) FindByEmail(_ context.Context, email string) (*entity.Member, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(func(m entity.Member) bool { return m.Email == email }); i >= 0 {
		m := r.members[i]
		return &m, nil
	}
	return nil, repository.ErrNotFound
}

func (r *MemoryMemberRepository) FindByNameContainingIgnoreCase(ctx context.Context, fragment string) ([]entity.Member, error) {
	return r.FindByExample(ctx, repository.Example{Sample: entity.Member{Name: fragment}, IgnoreCase: true})
}

func (r *MemoryMemberRepository) FindByEmailDomain(_ context.Context, domain string) ([]entity.Member, error) {
	suffix := strings.ToLower(domain)
	return r.filter(func(m entity.Member) bool {
		return strings.HasSuffix(strings.ToLower(m.Email), suffix)
	})
}

func (r *MemoryMemberRepository) FindAll(_ context.Context) ([]entity.Member, error) {
	return r.filter(func(entity.Member) bool { return true })
}

func (r *MemoryMemberRepository) FindAllSorted(ctx context.Context, sort repository.Sort) ([]entity.Member, error) {
	items, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	repository.SortMembers(items, sort)
	return items, nil
}

func (r *MemoryMemberRepository) FindPage(ctx context.Context, req repository.PageRequest) (repository.Page, error) {
	return r.FindPageByExample(ctx, repository.Example{}, req)
}

func (r *MemoryMemberRepository) FindByExample(_ context.Context, ex repository.Example) ([]entity.Member, error) {
	return r.filter(ex.Matches)
}

func (r *MemoryMemberRepository) FindPageByExample(ctx context.Context, ex repository.Example, req repository.PageRequest) (repository.Page, error) {
	req = req.Normalize()
	items, err := r.FindByExample(ctx, ex)
	if err != nil {
		return repository.Page{}, err
	}
	repository.SortMembers(items, req.Sort)
	return repository.Paginate(items, req), nil
}

func (r *MemoryMemberRepository) CountByExample(ctx context.Context, ex repository.Example) (int64, error) {
	items, err := r.FindByExample(ctx, ex)
	return int64(len(items)), err
}

func (r *MemoryMemberRepository) ExistsByExample(ctx context.Context, ex repository.Example) (bool, error) {
	n, err := r.CountByExample(ctx, ex)
	return n > 0, err
}

func (r *MemoryMemberRepository) Save(_ context.Context, m *entity.Member) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	taken := r.indexOf(func(o entity.Member) bool { return o.Email == m.Email && o.ID != m.ID })
	if taken >= 0 {
		return repository.ErrDuplicateEmail
	}
	if m.IsNew() {
		r.nextID++
		m.ID = strconv.FormatInt(r.nextID, 10)
		r.members = append(r.members, *m)
		return nil
	}
	i := r.indexOf(func(o entity.Member) bool { return o.ID == m.ID })
	if i < 0 {
		return repository.ErrNotFound
	}
	r.members[i] = *m
	return nil
}

func (r *MemoryMemberRepository) DeleteByID(_ context.Context, id string) error {
	return r.remove(func(m entity.Member) bool { return m.ID == id })
}

func (r *MemoryMemberRepository) Delete(_ context.Context, m *entity.Member) error {
	return r.remove(func(o entity.Member) bool { return o.Email == m.Email })
}

func (r *MemoryMemberRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = nil
	return nil
}

func (r *MemoryMemberRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.members)), nil
}

func (r *MemoryMemberRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *MemoryMemberRepository) filter(keep func(entity.Member) bool) ([]entity.Member, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Member, 0, len(r.members))
	for _, m := range r.members {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryMemberRepository) remove(match func(entity.Member) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(match)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (r *MemoryMemberRepository) indexOf(match func(entity.Member) bool) int {
	for i, m := range r.members {
		if match(m) {
			return i
		}
	}
	return -1
}

var _ repository.MemberRepository = (*MemoryMemberRepository)(nil)
