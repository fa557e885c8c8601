// Command attendance-import loads an attendance CSV export into Postgres so the
// dashboard can run with ATTENDANCE_SOURCE=postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
	"github.com/EmpoweredVote/attendance-monitor/internal/db"
	"github.com/EmpoweredVote/attendance-monitor/internal/logging"
)

type importOptions struct {
	csvPath       string
	dbURL         string
	wipe          bool
	keepDistricts []string
	logLevel      string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:           "attendance-import",
		Short:         "Import an attendance CSV export into Postgres",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.dbURL == "" {
				opts.dbURL = os.Getenv("DATABASE_URL")
			}
			if opts.dbURL == "" {
				return errors.New("--db or DATABASE_URL is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "path to the attendance CSV export (required)")
	cmd.Flags().StringVar(&opts.dbURL, "db", "", "Postgres connection string (default: DATABASE_URL)")
	cmd.Flags().BoolVar(&opts.wipe, "wipe", false, "DANGER: truncates attendance.records before importing")
	cmd.Flags().StringSliceVar(&opts.keepDistricts, "keep-districts", nil, "only import these districts")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func runImport(ctx context.Context, opts importOptions) error {
	log, err := logging.New(opts.logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	table, err := attendance.ParseCSV(opts.csvPath)
	if err != nil {
		return err
	}
	table = table.KeepDistricts(opts.keepDistricts)
	log.Info("Parsed attendance export",
		zap.String("csv", opts.csvPath),
		zap.Int("records", len(table.Records)),
		zap.Int("dropped_undated", table.Dropped),
	)

	gdb, err := db.Connect(opts.dbURL, log)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.EnsureSchema(gdb, "attendance"); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := attendance.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	conn, err := pgx.Connect(ctx, opts.dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	n, err := attendance.Import(ctx, conn, table, filepath.Base(opts.csvPath), opts.wipe)
	if err != nil {
		return err
	}
	log.Info("Import complete", zap.Int64("rows", n), zap.Bool("wiped", opts.wipe))
	return nil
}

func main() {
	_ = godotenv.Load(".env.local")

	if err := newImportCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
