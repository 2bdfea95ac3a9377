//go:build integration

package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	pginfra "github.com/oksasatya/go-kitchensink/internal/infrastructure/postgres"
	"github.com/oksasatya/go-kitchensink/internal/testutil/containers"
	"github.com/oksasatya/go-kitchensink/internal/testutil/repotest"
)

func TestPostgresMemberRepositoryContract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.NewPostgresContainer(t)
	suite.Run(t, &repotest.ContractSuite{
		Repo:      pginfra.NewMemberRepository(pg.Pool),
		Reset:     pg.Truncate,
		MissingID: "999999",
	})
}
