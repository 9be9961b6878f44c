package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrazmi/taskwire/core/repositories/usersessionsrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersessionsrepo/stores/usersessionspgxstore"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/jrazmi/taskwire/sdk/logger"
	"github.com/spf13/pflag"
)

// CreateUserArgs are the flags accepted by create-user.
type CreateUserArgs struct {
	Name  string
	Email string
	TTL   time.Duration
}

// IssueSessionArgs are the flags accepted by issue-session.
type IssueSessionArgs struct {
	UserID string
	TTL    time.Duration
}

// RevokeSessionArgs are the flags accepted by revoke-session.
type RevokeSessionArgs struct {
	Token string
}

// ParseCreateUser reads create-user flags. ErrHelp is returned when help was printed.
func ParseCreateUser(args []string, defaultTTL time.Duration, out io.Writer) (CreateUserArgs, error) {
	var parsed CreateUserArgs

	flagSet := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&parsed.Name, "name", "", "display name of the user")
	flagSet.StringVar(&parsed.Email, "email", "", "email address of the user")
	flagSet.DurationVar(&parsed.TTL, "ttl", defaultTTL, "lifetime of the issued session token")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return CreateUserArgs{}, ErrHelp
		}
		return CreateUserArgs{}, err
	}

	if parsed.Name == "" || parsed.Email == "" {
		return CreateUserArgs{}, fmt.Errorf("--name and --email are required")
	}

	return parsed, nil
}

// ParseIssueSession reads issue-session flags. ErrHelp is returned when help was printed.
func ParseIssueSession(args []string, defaultTTL time.Duration, out io.Writer) (IssueSessionArgs, error) {
	var parsed IssueSessionArgs

	flagSet := pflag.NewFlagSet("issue-session", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&parsed.UserID, "user", "", "id of the user the session belongs to")
	flagSet.DurationVar(&parsed.TTL, "ttl", defaultTTL, "lifetime of the issued session token")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return IssueSessionArgs{}, ErrHelp
		}
		return IssueSessionArgs{}, err
	}

	if parsed.UserID == "" {
		return IssueSessionArgs{}, fmt.Errorf("--user is required")
	}

	return parsed, nil
}

// ParseRevokeSession reads revoke-session flags. ErrHelp is returned when help was printed.
func ParseRevokeSession(args []string, out io.Writer) (RevokeSessionArgs, error) {
	var parsed RevokeSessionArgs

	flagSet := pflag.NewFlagSet("revoke-session", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&parsed.Token, "token", "", "session token to revoke")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return RevokeSessionArgs{}, ErrHelp
		}
		return RevokeSessionArgs{}, err
	}

	if parsed.Token == "" {
		return RevokeSessionArgs{}, fmt.Errorf("--token is required")
	}

	return parsed, nil
}

// CreateUser adds a user and prints a session token for it.
func CreateUser(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool, args CreateUserArgs, out io.Writer) error {
	users := usersrepo.NewRepository(log, userspgxstore.NewStore(log, pool))
	sessions := usersessionsrepo.NewRepository(log, usersessionspgxstore.NewStore(log, pool))

	user, err := users.Create(ctx, usersrepo.CreateUser{Name: args.Name, Email: args.Email})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	log.InfoContext(ctx, "user created", "user_id", user.UserID)

	session, err := sessions.Issue(ctx, user.UserID, args.TTL)
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}

	fmt.Fprintf(out, "user:    %s\n", user.UserID)
	fmt.Fprintf(out, "token:   %s\n", session.Token)
	fmt.Fprintf(out, "expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	return nil
}

// IssueSession prints a new session token for an existing user.
func IssueSession(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool, args IssueSessionArgs, out io.Writer) error {
	users := usersrepo.NewRepository(log, userspgxstore.NewStore(log, pool))
	sessions := usersessionsrepo.NewRepository(log, usersessionspgxstore.NewStore(log, pool))

	if _, err := users.Get(ctx, args.UserID); err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	session, err := sessions.Issue(ctx, args.UserID, args.TTL)
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}

	fmt.Fprintf(out, "token:   %s\n", session.Token)
	fmt.Fprintf(out, "expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	return nil
}

// RevokeSession deletes a session so its token stops authenticating.
func RevokeSession(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool, args RevokeSessionArgs, out io.Writer) error {
	sessions := usersessionsrepo.NewRepository(log, usersessionspgxstore.NewStore(log, pool))

	if err := sessions.Revoke(ctx, args.Token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	fmt.Fprintln(out, "session revoked")
	return nil
}
