package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

var (
	tenantA = uuid.MustParse("00000000-0000-0000-0000-000000000000")
	tenantB = uuid.MustParse("11111111-1111-1111-1111-111111111111")
)

func TestProjectIsolation(t *testing.T) {
	ctx := context.Background()
	stores := New()

	project, err := stores.Projects.Create(ctx, tenantA, store.CreateProjectParams{Name: "mine"})
	require.NoError(t, err)

	t.Run("other tenant cannot see the project", func(t *testing.T) {
		projects, err := stores.Projects.List(ctx, tenantB)
		require.NoError(t, err)
		require.Empty(t, projects)

		_, err = stores.Projects.Get(ctx, tenantB, project.ID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})

	t.Run("cross-tenant and missing updates are indistinguishable", func(t *testing.T) {
		name := "theirs"

		crossErr := stores.Projects.Update(ctx, tenantB, project.ID, store.UpdateProjectParams{Name: &name})
		missingErr := stores.Projects.Update(ctx, tenantB, uuid.New(), store.UpdateProjectParams{Name: &name})

		require.ErrorIs(t, crossErr, store.ErrProjectNotFound)
		require.ErrorIs(t, missingErr, store.ErrProjectNotFound)
		require.Equal(t, crossErr.Error(), missingErr.Error())
	})

	t.Run("owner still sees it", func(t *testing.T) {
		got, err := stores.Projects.Get(ctx, tenantA, project.ID)
		require.NoError(t, err)
		require.Equal(t, "mine", got.Name)
	})
}

func TestProjectListOrdering(t *testing.T) {
	ctx := context.Background()
	stores := New()

	first, err := stores.Projects.Create(ctx, tenantA, store.CreateProjectParams{Name: "first"})
	require.NoError(t, err)

	second, err := stores.Projects.Create(ctx, tenantA, store.CreateProjectParams{Name: "second"})
	require.NoError(t, err)

	projects, err := stores.Projects.List(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, second.ID, projects[0].ID)
	require.Equal(t, first.ID, projects[1].ID)
}

func TestProjectUpdateCoalesce(t *testing.T) {
	ctx := context.Background()
	stores := New()

	desc := "original"
	project, err := stores.Projects.Create(ctx, tenantA, store.CreateProjectParams{Name: "keep", Description: &desc})
	require.NoError(t, err)

	updated := "changed"
	require.NoError(t, stores.Projects.Update(ctx, tenantA, project.ID, store.UpdateProjectParams{Description: &updated}))

	got, err := stores.Projects.Get(ctx, tenantA, project.ID)
	require.NoError(t, err)
	require.Equal(t, "keep", got.Name)
	require.Equal(t, updated, *got.Description)
}

func TestDeleteCascadesToRuns(t *testing.T) {
	ctx := context.Background()
	stores := New()

	project, err := stores.Projects.Create(ctx, tenantA, store.CreateProjectParams{Name: "doomed"})
	require.NoError(t, err)

	_, err = stores.Runs.Create(ctx, tenantA, store.CreateAgentRunParams{
		ProjectID: project.ID,
		AgentType: "planner",
		InputData: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	require.NoError(t, stores.Projects.Delete(ctx, tenantA, project.ID))

	runs, err := stores.Runs.List(ctx, tenantA, nil)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestAgentRunCrossTenantCreate(t *testing.T) {
	ctx := context.Background()
	stores := New()

	project, err := stores.Projects.Create(ctx, tenantA, store.CreateProjectParams{Name: "mine"})
	require.NoError(t, err)

	_, err = stores.Runs.Create(ctx, tenantB, store.CreateAgentRunParams{
		ProjectID: project.ID,
		AgentType: "planner",
		InputData: json.RawMessage(`{}`),
	})
	require.ErrorIs(t, err, store.ErrProjectNotFound)
}

func TestUsageLogSideEffects(t *testing.T) {
	ctx := context.Background()
	stores := New()

	project, err := stores.Projects.Create(ctx, tenantA, store.CreateProjectParams{Name: "audited"})
	require.NoError(t, err)

	run, err := stores.Runs.Create(ctx, tenantA, store.CreateAgentRunParams{
		ProjectID: project.ID,
		AgentType: "summariser",
		InputData: json.RawMessage(`{"prompt":"hi"}`),
	})
	require.NoError(t, err)

	logs, err := stores.Logs.List(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first: run start, then project creation.
	require.Equal(t, models.ActionAgentRunStarted, logs[0].Action)
	require.Equal(t, models.ActionProjectCreated, logs[1].Action)

	var details map[string]string
	require.NoError(t, json.Unmarshal(logs[0].Details, &details))
	require.Equal(t, run.ID.String(), details["run_id"])
	require.Equal(t, "summariser", details["agent_type"])

	t.Run("isolated per tenant", func(t *testing.T) {
		logs, err := stores.Logs.List(ctx, tenantB)
		require.NoError(t, err)
		require.Empty(t, logs)
	})
}
