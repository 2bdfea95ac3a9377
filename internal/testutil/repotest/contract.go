// Package repotest holds the behaviour every repository.MemberRepository
// implementation must share, run against each backend.
package repotest

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
)

// ContractSuite runs against Repo after Reset empties the store before each test.
// MissingID must be a well-formed id for the backend that is never assigned.
type ContractSuite struct {
	suite.Suite
	Repo      repository.MemberRepository
	Reset     func(ctx context.Context) error
	MissingID string
}

func (s *ContractSuite) SetupTest() {
	s.Require().NoError(s.Reset(context.Background()))
}

func (s *ContractSuite) save(name, email, phone string) entity.Member {
	m := entity.Member{Name: name, Email: email, PhoneNumber: phone}
	s.Require().NoError(s.Repo.Save(context.Background(), &m))
	return m
}

func (s *ContractSuite) seed() {
	s.save("John Smith", "john.smith@mailinator.com", "2125551212")
	s.save("Robert Johnson", "robert@example.com", "2125551213")
	s.save("Jane Doe", "jane@EXAMPLE.com", "2125551214")
	s.save("Alice Adams", "alice@example.org", "2125551215")
}

func (s *ContractSuite) TestSaveAssignsIDAndFindsByEmail() {
	ctx := context.Background()
	m := s.save("John Doe", "john@example.com", "1234567890")
	s.NotEmpty(m.ID)

	found, err := s.Repo.FindByEmail(ctx, "john@example.com")
	s.Require().NoError(err)
	s.Equal(m, *found)

	byID, err := s.Repo.FindByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(m, *byID)
}

func (s *ContractSuite) TestSaveDuplicateEmail() {
	ctx := context.Background()
	s.save("John Doe", "john@example.com", "1234567890")

	dup := entity.Member{Name: "Johnny", Email: "john@example.com", PhoneNumber: "0987654321"}
	err := s.Repo.Save(ctx, &dup)
	s.ErrorIs(err, repository.ErrDuplicateEmail)

	n, err := s.Repo.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)
}

func (s *ContractSuite) TestSaveUpdatesExistingMember() {
	ctx := context.Background()
	m := s.save("John Doe", "john@example.com", "1234567890")

	m.Name = "John Q Doe"
	s.Require().NoError(s.Repo.Save(ctx, &m))

	found, err := s.Repo.FindByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal("John Q Doe", found.Name)

	ghost := entity.Member{ID: s.MissingID, Name: "Ghost", Email: "ghost@example.com", PhoneNumber: "1234567890"}
	s.ErrorIs(s.Repo.Save(ctx, &ghost), repository.ErrNotFound)
}

func (s *ContractSuite) TestFindByNameContainingIgnoreCase() {
	s.seed()
	found, err := s.Repo.FindByNameContainingIgnoreCase(context.Background(), "john")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"John Smith", "Robert Johnson"}, names(found))

	none, err := s.Repo.FindByNameContainingIgnoreCase(context.Background(), "j%")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *ContractSuite) TestFindByEmailDomain() {
	s.seed()
	found, err := s.Repo.FindByEmailDomain(context.Background(), "@example.com")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Robert Johnson", "Jane Doe"}, names(found))
}

func (s *ContractSuite) TestFindAllSorted() {
	s.seed()
	ctx := context.Background()

	all, err := s.Repo.FindAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 4)

	byName, err := s.Repo.FindAllSorted(ctx, repository.Sort{Field: repository.SortByName})
	s.Require().NoError(err)
	s.Equal([]string{"Alice Adams", "Jane Doe", "John Smith", "Robert Johnson"}, names(byName))

	desc, err := s.Repo.FindAllSorted(ctx, repository.Sort{Field: repository.SortByName, Desc: true})
	s.Require().NoError(err)
	s.Equal("Robert Johnson", desc[0].Name)
}

// Name order is the code point order of the lowercased name on every backend.
func (s *ContractSuite) TestNameOrderIgnoresCollation() {
	s.save("Zoe Quinn", "zoe@example.com", "2125551216")
	s.save("émile Zola", "emile@example.com", "2125551217")
	s.save("eve Adams", "eve@example.com", "2125551218")
	s.save("Bob Stone", "bob@example.com", "2125551219")
	ctx := context.Background()
	want := []string{"Bob Stone", "eve Adams", "Zoe Quinn", "émile Zola"}

	all, err := s.Repo.FindAllSorted(ctx, repository.Sort{Field: repository.SortByName})
	s.Require().NoError(err)
	s.Equal(want, names(all))

	page, err := s.Repo.FindPage(ctx, repository.PageRequest{Page: 0, Size: 10, Sort: repository.Sort{Field: repository.SortByName}})
	s.Require().NoError(err)
	s.Equal(want, names(page.Items))

	byExample, err := s.Repo.FindPageByExample(ctx, repository.Example{}, repository.PageRequest{Page: 0, Size: 10, Sort: repository.Sort{Field: repository.SortByName}})
	s.Require().NoError(err)
	s.Equal(want, names(byExample.Items))
}

func (s *ContractSuite) TestFindPage() {
	s.seed()
	ctx := context.Background()

	page, err := s.Repo.FindPage(ctx, repository.PageRequest{Page: 1, Size: 3, Sort: repository.Sort{Field: repository.SortByName}})
	s.Require().NoError(err)
	s.EqualValues(4, page.Total)
	s.Equal([]string{"Robert Johnson"}, names(page.Items))

	empty, err := s.Repo.FindPage(ctx, repository.PageRequest{Page: 5, Size: 3})
	s.Require().NoError(err)
	s.Empty(empty.Items)
	s.EqualValues(4, empty.Total)
}

func (s *ContractSuite) TestFindByExample() {
	s.seed()
	ctx := context.Background()
	ex := repository.Example{Sample: entity.Member{Email: "EXAMPLE"}, IgnoreCase: true}

	found, err := s.Repo.FindByExample(ctx, ex)
	s.Require().NoError(err)
	s.Len(found, 3)

	n, err := s.Repo.CountByExample(ctx, ex)
	s.Require().NoError(err)
	s.EqualValues(3, n)

	page, err := s.Repo.FindPageByExample(ctx, ex, repository.PageRequest{Page: 0, Size: 2, Sort: repository.Sort{Field: repository.SortByName}})
	s.Require().NoError(err)
	s.EqualValues(3, page.Total)
	s.Equal([]string{"Alice Adams", "Jane Doe"}, names(page.Items))

	past, err := s.Repo.FindPageByExample(ctx, ex, repository.PageRequest{Page: 9, Size: 2})
	s.Require().NoError(err)
	s.Empty(past.Items)

	exists, err := s.Repo.ExistsByExample(ctx, repository.Example{Sample: entity.Member{PhoneNumber: "999"}})
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ContractSuite) TestDeleteByID() {
	ctx := context.Background()
	m := s.save("John Doe", "john@example.com", "1234567890")

	exists, err := s.Repo.ExistsByID(ctx, m.ID)
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.Repo.DeleteByID(ctx, m.ID))
	s.ErrorIs(s.Repo.DeleteByID(ctx, m.ID), repository.ErrNotFound)

	all, err := s.Repo.FindAll(ctx)
	s.Require().NoError(err)
	s.Empty(all)

	_, err = s.Repo.FindByID(ctx, m.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *ContractSuite) TestDeleteByEmail() {
	ctx := context.Background()
	m := s.save("John Doe", "john@example.com", "1234567890")

	s.Require().NoError(s.Repo.Delete(ctx, &entity.Member{Email: m.Email}))
	s.ErrorIs(s.Repo.Delete(ctx, &m), repository.ErrNotFound)
}

func (s *ContractSuite) TestMalformedAndMissingIDs() {
	ctx := context.Background()
	for _, id := range []string{"not-an-id", s.MissingID} {
		_, err := s.Repo.FindByID(ctx, id)
		s.ErrorIs(err, repository.ErrNotFound, id)

		exists, err := s.Repo.ExistsByID(ctx, id)
		s.Require().NoError(err)
		s.False(exists, id)

		s.ErrorIs(s.Repo.DeleteByID(ctx, id), repository.ErrNotFound, id)
	}
}

func (s *ContractSuite) TestDeleteAll() {
	s.seed()
	ctx := context.Background()
	s.Require().NoError(s.Repo.DeleteAll(ctx))

	n, err := s.Repo.Count(ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func names(items []entity.Member) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.Name)
	}
	return out
}
