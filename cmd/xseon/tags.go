package main

import (
	"github.com/spf13/cobra"

	"github.com/azzam2912/xseon-real/internal/domain"
)

func (a *app) tagsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tags", Short: "Manage tags"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := a.svc.ListTags(cmd.Context())
			if err != nil {
				return err
			}
			return a.printTags(tags)
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.GetTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(t)
			}
			return a.printTags([]domain.Tag{*t})
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.CreateTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(t)
			}
			return a.printTags([]domain.Tag{*t})
		},
	}

	update := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.UpdateTag(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(t)
			}
			return a.printTags([]domain.Tag{*t})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an unused tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.DeleteTag(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}
