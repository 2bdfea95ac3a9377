package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("member not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// MemberRepository defines the persistence operations for members.
// Both the Postgres and the MongoDB implementations satisfy it; exactly one
// is selected at startup.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Member, error)
	FindByEmail(ctx context.Context, email string) (*entity.Member, error)
	FindByNameContainingIgnoreCase(ctx context.Context, fragment string) ([]entity.Member, error)
	FindByEmailDomain(ctx context.Context, domain string) ([]entity.Member, error)

	FindAll(ctx context.Context) ([]entity.Member, error)
	FindAllSorted(ctx context.Context, sort Sort) ([]entity.Member, error)
	FindPage(ctx context.Context, req PageRequest) (Page, error)

	FindByExample(ctx context.Context, ex Example) ([]entity.Member, error)
	FindPageByExample(ctx context.Context, ex Example, req PageRequest) (Page, error)
	CountByExample(ctx context.Context, ex Example) (int64, error)
	ExistsByExample(ctx context.Context, ex Example) (bool, error)

	// Save inserts the member when it has no ID yet (assigning one) and
	// updates it otherwise. A unique email violation yields ErrDuplicateEmail.
	Save(ctx context.Context, m *entity.Member) error

	DeleteByID(ctx context.Context, id string) error
	// Delete removes the member matching m.Email.
	Delete(ctx context.Context, m *entity.Member) error
	DeleteAll(ctx context.Context) error

	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}
