//go:build integration

package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoinfra "github.com/oksasatya/go-kitchensink/internal/infrastructure/mongodb"
	"github.com/oksasatya/go-kitchensink/internal/testutil/containers"
	"github.com/oksasatya/go-kitchensink/internal/testutil/repotest"
)

func TestMongoMemberRepositoryContract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	mc := containers.NewMongoContainer(t)
	repo := mongoinfra.NewMemberRepository(mc.Client.Database("kitchensink_test"), "members")
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	suite.Run(t, &repotest.ContractSuite{
		Repo:      repo,
		Reset:     repo.DeleteAll,
		MissingID: primitive.NewObjectID().Hex(),
	})
}
