package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
)

func TestParseID(t *testing.T) {
	key, ok := parseID("42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, key)

	for _, bad := range []string{"", "abc", "0", "-1", "65f1c0ffee"} {
		_, ok := parseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_off\\`, escapeLike(`100%_off\`))
	assert.Equal(t, "@example.com", escapeLike("@example.com"))
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "id ASC", orderBy(repository.Sort{Field: repository.SortByID}))
	assert.Equal(t, "id DESC", orderBy(repository.Sort{Desc: true}))
	assert.Equal(t, `lower(name) COLLATE "C" DESC, id ASC`, orderBy(repository.Sort{Field: repository.SortByName, Desc: true}))
	assert.Equal(t, `lower(email) COLLATE "C" ASC, id ASC`, orderBy(repository.Sort{Field: repository.SortByEmail}))
	assert.Equal(t, "phone_number ASC, id ASC", orderBy(repository.Sort{Field: repository.SortByPhoneNumber}))
}

func TestExampleWhere(t *testing.T) {
	where, args := exampleWhere(repository.Example{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = exampleWhere(repository.Example{
		Sample:     entity.Member{Name: "john", PhoneNumber: "555"},
		IgnoreCase: true,
	})
	assert.Equal(t, " WHERE name ILIKE $1 AND phone_number LIKE $2", where)
	assert.Equal(t, []any{"%john%", "%555%"}, args)

	where, _ = exampleWhere(repository.Example{Sample: entity.Member{Email: "example"}})
	assert.Equal(t, " WHERE email LIKE $1", where)
}

func TestTranslateUniqueViolation(t *testing.T) {
	err := translate(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "members_email_key"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
