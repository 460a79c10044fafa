package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	auditsvc "github.com/cakesweet/storefront/internal/audit"
	"github.com/cakesweet/storefront/internal/config"
	"github.com/cakesweet/storefront/internal/database"
	auditrepo "github.com/cakesweet/storefront/internal/database/audit"
)

// CleanupEventsCommand deletes login events older than the retention period.
// The same pruning runs on a schedule inside the server; this command exists
// for one-off maintenance.
type CleanupEventsCommand struct {
	DatabasePath  string
	RetentionDays int
}

func NewCleanupEventsCommand() *CleanupEventsCommand {
	return &CleanupEventsCommand{}
}

func (cmd *CleanupEventsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-events", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.RetentionDays, "retention-days", 30, "Delete login events older than this many days")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-events [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete login audit events older than the retention period.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.RetentionDays <= 0 {
		return fmt.Errorf("-retention-days must be positive")
	}

	return nil
}

func (cmd *CleanupEventsCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	service := auditsvc.NewService(auditrepo.NewRepository(db.DB))
	retention := time.Duration(cmd.RetentionDays) * 24 * time.Hour

	deleted, err := service.DeleteOldEvents(retention)
	if err != nil {
		return fmt.Errorf("failed to delete old events: %w", err)
	}

	fmt.Printf("Deleted %d login events older than %d days from %s\n", deleted, cmd.RetentionDays, absDBPath)
	return nil
}
