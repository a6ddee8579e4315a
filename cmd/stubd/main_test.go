package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DawnFalls/getSuitedV1/internal/stubstore"
)

func TestSeedEvaluations_SkipsAlreadySeededStore(t *testing.T) {
	ctx := context.Background()
	repo := stubstore.NewMemoryRepo()

	seedEvaluations(ctx, repo)
	first, err := repo.Evaluations(ctx, "demo@getsuited.dev")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// a second start against the same store must not duplicate demo data
	seedEvaluations(ctx, repo)
	again, err := repo.Evaluations(ctx, "demo@getsuited.dev")
	require.NoError(t, err)
	require.Len(t, again, len(first))
}
