//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

// otherTenantID is a second user seeded by the test fixture so isolation can
// be exercised across tenants.
var otherTenantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

type fixture struct {
	adminPool *pgxpool.Pool
	db        *DB
	projects  *ProjectStore
	runs      *AgentRunStore
	logs      *UsageLogStore
}

// setupPostgres starts a postgres container, provisions the schema as the
// owning role and connects the application pool as a restricted role, the
// same split a deployment uses. The container user is a superuser and
// superusers bypass row security, so isolation must be asserted through the
// restricted role.
func setupPostgres(t *testing.T, ctx context.Context) (*fixture, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	adminConnString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	adminPool, err := NewPool(ctx, &PoolConfig{ConnString: adminConnString})
	require.NoError(t, err)

	require.NoError(t, Provision(ctx, adminPool))

	_, err = adminPool.Exec(ctx, `
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = 'aistudio_app') THEN
				CREATE ROLE aistudio_app LOGIN PASSWORD 'app';
			END IF;
		END
		$$;
		GRANT USAGE ON SCHEMA public TO aistudio_app;
		GRANT SELECT ON users TO aistudio_app;
		GRANT SELECT, INSERT, UPDATE, DELETE ON projects, agent_runs, usage_logs TO aistudio_app;
	`)
	require.NoError(t, err)

	_, err = adminPool.Exec(ctx, `
		INSERT INTO users (id, email, name)
		VALUES ($1, 'other@example.com', 'Other User')
		ON CONFLICT (id) DO NOTHING
	`, otherTenantID)
	require.NoError(t, err)

	appConnString := fmt.Sprintf("postgres://aistudio_app:app@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := Open(ctx, &PoolConfig{ConnString: appConnString})
	require.NoError(t, err)

	f := &fixture{
		adminPool: adminPool,
		db:        db,
		projects:  NewProjectStore(db),
		runs:      NewAgentRunStore(db),
		logs:      NewUsageLogStore(db),
	}

	cleanup := func() {
		db.Close()
		adminPool.Close()
		_ = container.Terminate(ctx)
	}

	return f, cleanup
}

func TestIntegration_ProvisionIdempotent(t *testing.T) {
	ctx := context.Background()
	f, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	t.Run("repeat provisioning is a no-op", func(t *testing.T) {
		require.NoError(t, Provision(ctx, f.adminPool))
		require.NoError(t, Provision(ctx, f.adminPool))
	})

	t.Run("concurrent provisioning is safe", func(t *testing.T) {
		const instances = 4

		var wg sync.WaitGroup
		errs := make([]error, instances)

		for i := range instances {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = Provision(ctx, f.adminPool)
			}()
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("exactly one policy per table", func(t *testing.T) {
		rows, err := f.adminPool.Query(ctx, `
			SELECT tablename, count(*)
			FROM pg_policies
			WHERE policyname LIKE '%_user_isolation'
			GROUP BY tablename
		`)
		require.NoError(t, err)
		defer rows.Close()

		counts := map[string]int{}
		for rows.Next() {
			var table string
			var count int
			require.NoError(t, rows.Scan(&table, &count))
			counts[table] = count
		}
		require.NoError(t, rows.Err())

		require.Equal(t, map[string]int{
			"projects":   1,
			"agent_runs": 1,
			"usage_logs": 1,
		}, counts)
	})

	t.Run("exactly one seed user", func(t *testing.T) {
		var count int
		err := f.adminPool.QueryRow(ctx,
			`SELECT count(*) FROM users WHERE id = $1`, models.SystemUserID).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}

func TestIntegration_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	f, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	project, err := f.projects.Create(ctx, models.SystemUserID, store.CreateProjectParams{
		Name: "isolated project",
	})
	require.NoError(t, err)

	_, err = f.runs.Create(ctx, models.SystemUserID, store.CreateAgentRunParams{
		ProjectID: project.ID,
		AgentType: "summariser",
		InputData: json.RawMessage(`{"prompt":"hello"}`),
	})
	require.NoError(t, err)

	t.Run("other tenant sees no projects", func(t *testing.T) {
		projects, err := f.projects.List(ctx, otherTenantID)
		require.NoError(t, err)
		require.Empty(t, projects)
	})

	t.Run("other tenant cannot get project by id", func(t *testing.T) {
		_, err := f.projects.Get(ctx, otherTenantID, project.ID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})

	t.Run("cross-tenant update is indistinguishable from missing", func(t *testing.T) {
		name := "stolen"

		crossErr := f.projects.Update(ctx, otherTenantID, project.ID, store.UpdateProjectParams{Name: &name})
		require.ErrorIs(t, crossErr, store.ErrProjectNotFound)

		missingErr := f.projects.Update(ctx, otherTenantID, uuid.New(), store.UpdateProjectParams{Name: &name})
		require.ErrorIs(t, missingErr, store.ErrProjectNotFound)

		require.Equal(t, crossErr.Error(), missingErr.Error())

		// And the row is untouched.
		got, err := f.projects.Get(ctx, models.SystemUserID, project.ID)
		require.NoError(t, err)
		require.Equal(t, "isolated project", got.Name)
	})

	t.Run("cross-tenant delete reports not found", func(t *testing.T) {
		err := f.projects.Delete(ctx, otherTenantID, project.ID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})

	t.Run("other tenant sees no agent runs", func(t *testing.T) {
		runs, err := f.runs.List(ctx, otherTenantID, nil)
		require.NoError(t, err)
		require.Empty(t, runs)

		runs, err = f.runs.List(ctx, otherTenantID, &project.ID)
		require.NoError(t, err)
		require.Empty(t, runs)
	})

	t.Run("other tenant cannot start a run against the project", func(t *testing.T) {
		_, err := f.runs.Create(ctx, otherTenantID, store.CreateAgentRunParams{
			ProjectID: project.ID,
			AgentType: "summariser",
			InputData: json.RawMessage(`{}`),
		})
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})

	t.Run("other tenant sees no usage logs", func(t *testing.T) {
		logs, err := f.logs.List(ctx, otherTenantID)
		require.NoError(t, err)
		require.Empty(t, logs)
	})
}

func TestIntegration_ProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	f, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	first, err := f.projects.Create(ctx, models.SystemUserID, store.CreateProjectParams{Name: "first"})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusActive, first.Status)

	// Distinct creation times so the ordering assertion cannot tie.
	time.Sleep(10 * time.Millisecond)

	second, err := f.projects.Create(ctx, models.SystemUserID, store.CreateProjectParams{Name: "second"})
	require.NoError(t, err)

	t.Run("list is newest first and contains the new project", func(t *testing.T) {
		projects, err := f.projects.List(ctx, models.SystemUserID)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		require.Equal(t, second.ID, projects[0].ID)
		require.Equal(t, first.ID, projects[1].ID)
	})

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		desc := "updated description"
		require.NoError(t, f.projects.Update(ctx, models.SystemUserID, first.ID, store.UpdateProjectParams{
			Description: &desc,
		}))

		got, err := f.projects.Get(ctx, models.SystemUserID, first.ID)
		require.NoError(t, err)
		require.Equal(t, "first", got.Name)
		require.NotNil(t, got.Description)
		require.Equal(t, desc, *got.Description)
	})

	t.Run("delete cascades to agent runs", func(t *testing.T) {
		_, err := f.runs.Create(ctx, models.SystemUserID, store.CreateAgentRunParams{
			ProjectID: second.ID,
			AgentType: "planner",
			InputData: json.RawMessage(`{"goal":"test"}`),
		})
		require.NoError(t, err)

		require.NoError(t, f.projects.Delete(ctx, models.SystemUserID, second.ID))

		runs, err := f.runs.List(ctx, models.SystemUserID, &second.ID)
		require.NoError(t, err)
		require.Empty(t, runs)
	})
}

func TestIntegration_AgentRunUsageLog(t *testing.T) {
	ctx := context.Background()
	f, cleanup := setupPostgres(t, ctx)
	defer cleanup()

	project, err := f.projects.Create(ctx, models.SystemUserID, store.CreateProjectParams{Name: "logged"})
	require.NoError(t, err)

	run, err := f.runs.Create(ctx, models.SystemUserID, store.CreateAgentRunParams{
		ProjectID: project.ID,
		AgentType: "summariser",
		InputData: json.RawMessage(`{"prompt":"hello"}`),
	})
	require.NoError(t, err)
	require.Equal(t, models.RunStatusRunning, run.Status)

	logs, err := f.logs.List(ctx, models.SystemUserID)
	require.NoError(t, err)

	var started []*models.UsageLog
	for _, entry := range logs {
		if entry.Action == models.ActionAgentRunStarted {
			started = append(started, entry)
		}
	}
	require.Len(t, started, 1)

	var details map[string]string
	require.NoError(t, json.Unmarshal(started[0].Details, &details))
	require.Equal(t, run.ID.String(), details["run_id"])
	require.Equal(t, "summariser", details["agent_type"])
}
