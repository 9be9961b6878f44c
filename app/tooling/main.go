package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrazmi/taskwire/app/taskwire/config"
	"github.com/jrazmi/taskwire/app/tooling/commands"
	"github.com/jrazmi/taskwire/infrastructure/postgresdb"
	"github.com/jrazmi/taskwire/sdk/environment"
	"github.com/jrazmi/taskwire/sdk/logger"
)

var build = "develop"

func processCommands(ctx context.Context, log *logger.Logger, command string, args []string, pg *pgxpool.Pool, opts config.Options) error {
	switch command {
	case "migrate":
		log.InfoContext(ctx, "running migration")
		if err := commands.Migrate(ctx, log, pg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil

	case "create-user":
		parsed, err := commands.ParseCreateUser(args, opts.SessionTTL, os.Stdout)
		if err != nil {
			return err
		}
		if err := commands.CreateUser(ctx, log, pg, parsed, os.Stdout); err != nil {
			return fmt.Errorf("create user failed: %w", err)
		}
		return nil

	case "issue-session":
		parsed, err := commands.ParseIssueSession(args, opts.SessionTTL, os.Stdout)
		if err != nil {
			return err
		}
		if err := commands.IssueSession(ctx, log, pg, parsed, os.Stdout); err != nil {
			return fmt.Errorf("issue session failed: %w", err)
		}
		return nil

	case "revoke-session":
		parsed, err := commands.ParseRevokeSession(args, os.Stdout)
		if err != nil {
			return err
		}
		if err := commands.RevokeSession(ctx, log, pg, parsed, os.Stdout); err != nil {
			return fmt.Errorf("revoke session failed: %w", err)
		}
		return nil

	default:
		printHelp()
		return nil
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  migrate        - create the schema in the database")
	fmt.Println("  create-user    - add a user and print a session token (--name, --email, --ttl)")
	fmt.Println("  issue-session  - print a new session token for a user (--user, --ttl)")
	fmt.Println("  revoke-session - stop a session token from authenticating (--token)")
	fmt.Println()
	fmt.Println("Use 'go run app/tooling/main.go <command> --help' for command-specific help.")
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	var command string
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if command == "" || command == "help" || command == "--help" || command == "-h" {
		printHelp()
		return nil
	}

	opts, err := config.LoadOptions(config.AppName)
	if err != nil {
		return err
	}

	pg, err := postgresdb.NewFromEnv(config.AppName, postgresdb.WithLogger(log.Logger))
	if err != nil {
		return fmt.Errorf("configuring postgres support: %w", err)
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection")
		pg.Close()
	}()
	log.InfoContext(ctx, "init", "service", "postgres")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var args []string
		if len(os.Args) > 2 {
			args = os.Args[2:]
		}
		done <- processCommands(ctx, log, command, args, pg, opts)
	}()

	select {
	case err := <-done:
		return err

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		cancel()

		// Give the command a moment to unwind after cancellation.
		timer := time.NewTimer(5 * time.Second)
		defer timer.Stop()

		select {
		case err := <-done:
			return err
		case <-timer.C:
			return errors.New("shutdown timeout")
		}
	}
}

func main() {
	_ = environment.LoadEnv()

	log, err := logger.NewFromEnv(config.AppName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	ctx := context.Background()

	if err = run(ctx, log); err != nil {
		if errors.Is(err, commands.ErrHelp) {
			return
		}
		log.ErrorContext(ctx, "tooling", "err", err)
		os.Exit(1)
	}
}
