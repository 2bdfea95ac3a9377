package testutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-kitchensink/internal/testutil"
	"github.com/oksasatya/go-kitchensink/internal/testutil/repotest"
)

func TestMemoryMemberRepositoryContract(t *testing.T) {
	repo := testutil.NewMemoryMemberRepository()
	suite.Run(t, &repotest.ContractSuite{
		Repo:      repo,
		Reset:     repo.DeleteAll,
		MissingID: "999999",
	})
}

func TestMemoryMemberRepositorySeed(t *testing.T) {
	repo := testutil.NewMemoryMemberRepository(testutil.Member("Jane Doe", "jane@example.com"))
	n, err := repo.Count(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected 1 seeded member, got %d (%v)", n, err)
	}
}
