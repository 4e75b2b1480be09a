package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azzam2912/xseon-real/internal/domain"
	"github.com/azzam2912/xseon-real/internal/record"
	"github.com/azzam2912/xseon-real/internal/service"
)

func (a *app) logsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "logs", Short: "Movement history"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List log entries in the order they were recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logs, err := a.svc.ListLogs(cmd.Context())
			if err != nil {
				return err
			}
			return a.printLogs(logs)
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Record a move; a known object is moved to the place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := service.MoveInput{
				ObjectID: stringFlag(cmd, "object", ""),
				PlaceID:  stringFlag(cmd, "place", ""),
				Notes:    stringFlag(cmd, "notes", ""),
			}
			if at := stringFlag(cmd, "at", ""); at != "" {
				t, err := record.ParseTime(at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				in.At = t
			}
			entry, err := a.svc.LogMove(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(entry)
			}
			return a.printLogs([]domain.LogEntry{*entry})
		},
	}
	add.Flags().String("object", "", "object id")
	add.Flags().String("place", "", "place id")
	add.Flags().String("notes", "", "free text")
	add.Flags().String("at", "", "time of the move in RFC 3339 (default now)")
	_ = add.MarkFlagRequired("object")

	cmd.AddCommand(list, add)
	return cmd
}

func (a *app) auditCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "audit", Short: "Changes to places and tags"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List audit entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.svc.ListAudit(cmd.Context())
			if err != nil {
				return err
			}
			return a.printAudit(entries)
		},
	})
	return cmd
}
