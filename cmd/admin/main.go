// Package main provides account management utilities for Quorum.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"quorum/internal/bootstrap"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/repository"
	"quorum/internal/service"
	"quorum/internal/session"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin list-users [-limit N] [-offset N]   - List accounts")
	fmt.Println("  go run ./cmd/admin delete-user <username>              - Delete an account and its content")
	fmt.Println("  go run ./cmd/admin set-password <username> <password>  - Reset a password")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipSchema: true})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	sessions := session.NewManager(cfg.SessionSecret, ttl, cfg.SessionCookieSecure, rdb)
	accounts := service.NewAccountService(repository.NewUserRepository(db)).WithSessionRevoker(sessions)

	switch command {
	case "list-users":
		fs := flag.NewFlagSet("list-users", flag.ExitOnError)
		limit := fs.Int("limit", 50, "Maximum accounts to show")
		offset := fs.Int("offset", 0, "Accounts to skip")
		_ = fs.Parse(args)

		users, err := accounts.ListUsers(ctx, *limit, *offset)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tJOINED\tLAST LOGIN")
		for _, u := range users {
			last := "never"
			if u.LastLogin != nil {
				last = u.LastLogin.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02"), last)
		}
		return w.Flush()

	case "delete-user":
		if len(args) != 1 {
			usage()
			return fmt.Errorf("delete-user needs a username")
		}
		u, err := accounts.DeleteUser(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted user %s (ID: %d)\n", u.Username, u.ID)
		return nil

	case "set-password":
		if len(args) != 2 {
			usage()
			return fmt.Errorf("set-password needs a username and a password")
		}
		if err := accounts.SetPassword(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Password updated for %s\n", args[0])
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}
