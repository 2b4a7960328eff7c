// Package main provides cosmicctl, the operator CLI: schema migrations, dev
// tokens, and workbook import and export for one owner.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/config"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/gateway"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

var (
	// cfg is loaded once before any command runs.
	cfg *config.Config

	// ownerID is set by the --owner flag of the owner-scoped commands.
	ownerID string

	// db is opened lazily by openGateway and closed after the command.
	db *sql.DB
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cosmicctl",
	Short: "Operator tools for Cosmic Tracker",
	Long: `cosmicctl talks to the same database as the API server, configured by
DB_DRIVER and DB_DSN (or CONFIG_FILE).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(remindersCmd)
}

// ownerFlag registers the required --owner flag on cmd.
func ownerFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ownerID, "owner", "", "owner id (UUID) whose inventory is used")
	_ = cmd.MarkFlagRequired("owner")
}

func openGateway(ctx context.Context) (*gateway.Gateway, error) {
	dsn := cfg.DBDSN
	if dsn == "" && cfg.DBDriver == "sqlite" {
		dsn = "cosmic.db"
	}
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	var err error
	db, err = gateway.Open(ctx, cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}
	return gateway.New(db, cfg.DBDriver), nil
}

// loadSession opens the gateway and loads the --owner session.
func loadSession(ctx context.Context) (*tracker.Session, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return nil, fmt.Errorf("--owner must be a UUID: %w", err)
	}
	gw, err := openGateway(ctx)
	if err != nil {
		return nil, err
	}
	sess := tracker.NewSession(gw, ownerID, tracker.Options{HashPINs: cfg.PINHashing})
	if err := sess.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	return sess, nil
}
