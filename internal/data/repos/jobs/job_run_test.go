package jobs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursegen-backend/internal/domain"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestJobRunRepoClaimOrder(t *testing.T) {
	db := testutil.DB(t)
	repo := NewJobRunRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	now := time.Now().UTC()
	queued := &types.JobRun{
		JobType: "test_job", EntityType: "course", EntityID: "c1",
		Status: types.JobStatusQueued, Stage: "queued",
		CreatedAt: now.Add(-3 * time.Hour), UpdatedAt: now.Add(-3 * time.Hour),
	}
	failed := &types.JobRun{
		JobType: "test_job", EntityType: "course", EntityID: "c2",
		Status: types.JobStatusFailed, Stage: "failed", Attempts: 1,
		LastErrorAt: ptrTime(now.Add(-2 * time.Hour)),
		CreatedAt:   now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
	}
	staleRunning := &types.JobRun{
		JobType: "test_job", EntityType: "course", EntityID: "c3",
		Status: types.JobStatusRunning, Stage: "running", Attempts: 1,
		HeartbeatAt: ptrTime(now.Add(-10 * time.Hour)),
		CreatedAt:   now.Add(-1 * time.Hour), UpdatedAt: now.Add(-1 * time.Hour),
	}
	created, err := repo.Create(dbc, []*types.JobRun{queued, failed, staleRunning})
	require.NoError(t, err)
	require.Len(t, created, 3)

	var order []uuid.UUID
	for i := 0; i < 3; i++ {
		job, err := repo.ClaimNextRunnable(dbc, 5, 30*time.Second, 30*time.Minute)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, types.JobStatusRunning, job.Status)
		order = append(order, job.ID)
	}
	assert.Equal(t, []uuid.UUID{queued.ID, failed.ID, staleRunning.ID}, order)

	none, err := repo.ClaimNextRunnable(dbc, 5, 30*time.Second, 30*time.Minute)
	require.NoError(t, err)
	assert.Nil(t, none)

	got, err := repo.GetByID(dbc, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
}

func TestJobRunRepoSkipsNonRetryableAndExhausted(t *testing.T) {
	db := testutil.DB(t)
	repo := NewJobRunRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	old := time.Now().UTC().Add(-time.Hour)
	_, err := repo.Create(dbc, []*types.JobRun{
		{JobType: "j", Status: types.JobStatusFailed, Stage: "run", NoRetry: true, Attempts: 1, LastErrorAt: &old},
		{JobType: "j", Status: types.JobStatusFailed, Stage: "run", Attempts: 5, LastErrorAt: &old},
		{JobType: "j", Status: types.JobStatusSucceeded, Stage: "done", Attempts: 1},
	})
	require.NoError(t, err)

	job, err := repo.ClaimNextRunnable(dbc, 5, time.Second, 30*time.Minute)
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobRunRepoUpdateGuards(t *testing.T) {
	db := testutil.DB(t)
	repo := NewJobRunRepo(db, testutil.Logger(t))
	dbc := testutil.DBC()

	jobs, err := repo.Create(dbc, []*types.JobRun{{JobType: "j", EntityType: "course", EntityID: "c1", Status: types.JobStatusCanceled, Stage: "canceled"}})
	require.NoError(t, err)
	id := jobs[0].ID

	ok, err := repo.UpdateFieldsUnlessStatus(dbc, id, []string{types.JobStatusCanceled}, map[string]interface{}{"stage": "x"})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpdateFields(dbc, id, map[string]interface{}{"status": types.JobStatusQueued}))
	has, err := repo.HasRunnableForEntity(dbc, "course", "c1", "j")
	require.NoError(t, err)
	assert.True(t, has)

	running, err := repo.MarkRunning(dbc, id)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusRunning, running.Status)
	assert.Equal(t, 1, running.Attempts)
	require.NoError(t, repo.Heartbeat(dbc, id))

	latest, err := repo.GetLatestByEntity(dbc, "course", "c1", "j")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id, latest.ID)
}
