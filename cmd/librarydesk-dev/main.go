package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"go.uber.org/zap"

	"librarydesk/internal/app"
	"librarydesk/internal/migrations"
)

// librarydesk-dev starts a throwaway ClickHouse container, migrates it and
// reads librarydesk command lines from stdin until EOF or a signal.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(ctx, logger); err != nil {
		logger.Error("Dev session failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	logger.Info("Starting ClickHouse testcontainer...")

	clickhouseContainer, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:latest",
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword("devpassword"),
		clickhouse.WithDatabase("default"),
	)
	if err != nil {
		return fmt.Errorf("failed to start ClickHouse container: %w", err)
	}
	defer func() {
		logger.Info("Stopping ClickHouse container...")
		if err := clickhouseContainer.Terminate(context.Background()); err != nil {
			logger.Warn("Failed to terminate container", zap.Error(err))
		}
	}()

	host, err := clickhouseContainer.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	if err != nil {
		return fmt.Errorf("failed to get container port: %w", err)
	}
	logger.Info("ClickHouse started", zap.String("host", host), zap.String("port", port.Port()))

	dsn := fmt.Sprintf("clickhouse://default:devpassword@%s:%s/default", host, port.Port())
	if err := migrate(ctx, dsn, logger); err != nil {
		return err
	}

	for key, value := range map[string]string{
		"STORAGE_BACKEND":     "clickhouse",
		"CLICKHOUSE_HOST":     host,
		"CLICKHOUSE_PORT":     port.Port(),
		"CLICKHOUSE_DATABASE": "default",
		"CLICKHOUSE_USER":     "default",
		"CLICKHOUSE_PASSWORD": "devpassword",
		"CLICKHOUSE_USE_TLS":  "false",
	} {
		os.Setenv(key, value)
	}

	application, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Shutdown()

	fmt.Println(`Type librarydesk commands, e.g. book add --title "Dune" ... (Ctrl-D to quit)`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("librarydesk> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		args := splitArgs(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if err := application.Execute(ctx, args); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func migrate(ctx context.Context, dsn string, logger *zap.Logger) error {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return fmt.Errorf("failed to open ClickHouse: %w", err)
	}
	defer db.Close()

	return migrations.Up(ctx, db, goose.DialectClickHouse, migrations.ClickHouseDir, logger)
}

// splitArgs splits a line on spaces, keeping double-quoted runs together
func splitArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case r == ' ' && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}
