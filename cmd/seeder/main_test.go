package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"funds-transfer/internal/repository"
)

func TestSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("seed_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("password"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(dsn, slog.New(slog.NewTextHandler(io.Discard, nil))))

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(ctx) })

	balance := decimal.RequireFromString("100.00")

	n, err := seed(ctx, conn, 5, balance)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = seed(ctx, conn, 5, balance)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding is skipped once enough accounts exist")

	n, err = seed(ctx, conn, 8, balance)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var count int
	var total string
	require.NoError(t, conn.QueryRow(ctx, "SELECT COUNT(*), SUM(balance)::text FROM balances").Scan(&count, &total))
	assert.Equal(t, 8, count)
	assert.Equal(t, "800.00", total)
}
