//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
)

func TestRepositoryUpsertsByUsername(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("trainer"),
		postgrescontainer.WithUsername("trainer"),
		postgrescontainer.WithPassword("trainer"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	missing, err := repo.FindByUsername(ctx, "ghost")
	require.NoError(t, err)
	require.Nil(t, missing)

	record := &domain.WorkloadRecord{
		TrainerUsername: "trainer1",
		FirstName:       "Jane",
		LastName:        "Doe",
		IsActive:        true,
		MonthlyTotals:   map[int]map[int]int{2025: {2: 10}},
	}
	require.NoError(t, repo.Save(ctx, record))

	record.FirstName = "Janet"
	record.MonthlyTotals[2025][2] = 25
	require.NoError(t, repo.Save(ctx, record))

	stored, err := repo.FindByUsername(ctx, "trainer1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEmpty(t, stored.ID)
	require.Equal(t, "Janet", stored.FirstName)
	require.Equal(t, map[int]map[int]int{2025: {2: 25}}, stored.MonthlyTotals)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
