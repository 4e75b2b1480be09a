package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/azzam2912/xseon-real/internal/config"
	"github.com/azzam2912/xseon-real/internal/logging"
	"github.com/azzam2912/xseon-real/internal/service"
	"github.com/azzam2912/xseon-real/internal/store"
)

// app is the state shared by every command for one invocation.
type app struct {
	configFile string
	jsonOut    bool
	out        io.Writer

	logger  *slog.Logger
	store   store.Store
	svc     *service.Service
	cleanup func()
}

// run executes one command line and releases the store afterwards, also
// when the command failed.
func run(args []string, out io.Writer) error {
	a := &app{out: out}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	err := root.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xseon",
		Short: "Track objects, places and moves",
		Long: `xseon keeps an inventory of objects and the places holding them.

Records live in CSV files, a SQLite database or a Google Sheets spreadsheet,
selected with STORE_BACKEND (csv, sqlite, sheets).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config file")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(a.objectsCmd(), a.placesCmd(), a.tagsCmd(), a.logsCmd(), a.auditCmd())
	return root
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	a.cleanup = cleanup

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	a.store = st
	a.svc = service.New(st, logger)
	return nil
}

func (a *app) close() error {
	var err error
	if a.store != nil {
		if err = a.store.Close(); err != nil {
			a.logger.Error("failed to close store", "error", err)
		}
	}
	if a.cleanup != nil {
		a.cleanup()
	}
	return err
}
