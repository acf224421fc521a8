package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"funds-transfer/internal/config"
	"funds-transfer/internal/repository"
)

func main() {
	accounts := flag.Int("accounts", 1000, "number of accounts to create")
	initial := flag.String("balance", "100.00", "starting balance of every account")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	balance, err := decimal.NewFromString(*initial)
	if err != nil || balance.IsNegative() {
		logger.Error("Invalid starting balance", "balance", *initial)
		os.Exit(1)
	}

	if err := repository.Migrate(cfg.GetDBConnectionString(), logger); err != nil {
		logger.Error("Failed to migrate", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.GetDBConnectionString())
	if err != nil {
		logger.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	n, err := seed(ctx, conn, *accounts, balance)
	if err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Seeding finished", "created", n)
}

// seed tops the table up to count accounts numbered from max(account_nr)+1.
func seed(ctx context.Context, conn *pgx.Conn, count int, balance decimal.Decimal) (int64, error) {
	var existing int
	var maxID int64
	err := conn.QueryRow(ctx, "SELECT COUNT(*), COALESCE(MAX(account_nr), 0) FROM balances").Scan(&existing, &maxID)
	if err != nil {
		return 0, err
	}
	if existing >= count {
		return 0, nil
	}

	var amount pgtype.Numeric
	if err := amount.Scan(balance.StringFixed(2)); err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, count-existing)
	for i := 1; i <= count-existing; i++ {
		rows = append(rows, []interface{}{maxID + int64(i), amount})
	}

	return conn.CopyFrom(
		ctx,
		pgx.Identifier{"balances"},
		[]string{"account_nr", "balance"},
		pgx.CopyFromRows(rows),
	)
}
