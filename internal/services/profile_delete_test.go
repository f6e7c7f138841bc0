package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/mathadventures/internal/config"
	"github.com/vytor/mathadventures/internal/jobs"
	"github.com/vytor/mathadventures/internal/repository"
	"github.com/vytor/mathadventures/internal/repository/sqlite"
	"github.com/vytor/mathadventures/internal/services"
	"github.com/vytor/mathadventures/internal/testutil"
	"github.com/vytor/mathadventures/internal/worker"
)

func TestDeleteProfile_QueuedWriteDoesNotRestoreHistory(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)

	profileRepo := sqlite.NewProfileRepository(database)
	historyRepo := sqlite.NewHistoryRepository(database)

	// The pool is started only after the delete, so the write stays queued.
	pool := worker.NewPool(1, 8)
	gameSvc := services.NewGameService(profileRepo, historyRepo, jobs.NewWorkerQueue(pool, nil), sevenTimesSix{}, nil, config.DefaultRules())
	profileSvc := services.NewProfileService(profileRepo, historyRepo, gameSvc)

	profile, err := profileSvc.CreateProfile(ctx, "Shira")
	require.NoError(t, err)

	_, err = gameSvc.Start(ctx, profile.ID, "RELAXED", "BASIC")
	require.NoError(t, err)
	_, err = gameSvc.Answer(ctx, profile.ID, 42)
	require.NoError(t, err)
	_, err = gameSvc.Finish(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, 1, pool.QueueSize())

	require.NoError(t, profileSvc.DeleteProfile(ctx, profile.ID))

	pool.Start(ctx)
	pool.Stop()

	sessions, err := historyRepo.Load(ctx, repository.HistoryKey(profile.ID))
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = gameSvc.State(ctx, profile.ID)
	assert.Error(t, err, "deleted profile cannot be loaded again")
}

func TestDeleteProfile_KeepsOtherHistories(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	defer testutil.MustClose(t, database)

	profileRepo := sqlite.NewProfileRepository(database)
	historyRepo := sqlite.NewHistoryRepository(database)
	pool := worker.NewPool(1, 8)
	gameSvc := services.NewGameService(profileRepo, historyRepo, jobs.NewWorkerQueue(pool, nil), sevenTimesSix{}, nil, config.DefaultRules())
	profileSvc := services.NewProfileService(profileRepo, historyRepo, gameSvc)

	gone, err := profileSvc.CreateProfile(ctx, "Omer")
	require.NoError(t, err)
	kept, err := profileSvc.CreateProfile(ctx, "Dana")
	require.NoError(t, err)

	for _, id := range []int64{gone.ID, kept.ID} {
		_, err = gameSvc.Start(ctx, id, "RELAXED", "BASIC")
		require.NoError(t, err)
		_, err = gameSvc.Finish(ctx, id)
		require.NoError(t, err)
	}

	require.NoError(t, profileSvc.DeleteProfile(ctx, gone.ID))
	pool.Start(ctx)
	pool.Stop()

	sessions, err := historyRepo.Load(ctx, repository.HistoryKey(kept.ID))
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	sessions, err = historyRepo.Load(ctx, repository.HistoryKey(gone.ID))
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
