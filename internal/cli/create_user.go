// Package cli implements the administrative subcommands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cakesweet/storefront/internal/auth"
	"github.com/cakesweet/storefront/internal/config"
	"github.com/cakesweet/storefront/internal/database"
	"github.com/cakesweet/storefront/internal/database/users"
)

// CreateUserCommand creates a user account directly in the database,
// bypassing the HTTP registration endpoint.
type CreateUserCommand struct {
	Username     string
	Password     string
	DatabasePath string
	BcryptCost   int
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.BcryptCost, "cost", 10, "bcrypt cost factor for the password hash")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account without going through the HTTP registration flow.\n")
		fmt.Fprintf(os.Stderr, "Useful for bootstrapping the first admin account on a fresh database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username admin -password s3cret -db ./cakesweet.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), nil, config.Auth{BcryptCost: cmd.BcryptCost})

	user, err := service.Register(cmd.Username, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %q (id %d) in %s\n", user.Username, user.ID, absDBPath)
	return nil
}
