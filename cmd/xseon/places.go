package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azzam2912/xseon-real/internal/service"
)

func (a *app) placesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "places", Short: "Manage places"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tag, _ := cmd.Flags().GetString("tag")
			places, err := a.svc.ListPlaces(cmd.Context(), tag)
			if err != nil {
				return err
			}
			return a.printPlaces(places)
		},
	}
	list.Flags().String("tag", "", "only places carrying this tag id")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one place and the objects in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.svc.GetPlace(ctx, args[0])
			if err != nil {
				return err
			}
			objects, err := a.svc.ObjectsInPlace(ctx, p.ID)
			if err != nil {
				return err
			}
			return a.printPlace(p, objects)
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			photos, err := readUploads(cmd)
			if err != nil {
				return err
			}
			p, err := a.svc.CreatePlace(cmd.Context(), service.PlaceInput{
				Name:        stringFlag(cmd, "name", ""),
				Description: stringFlag(cmd, "description", ""),
				Images:      sliceFlag(cmd, "image", nil),
				Tags:        sliceFlag(cmd, "tag", nil),
				Photos:      photos,
			})
			if err != nil {
				return err
			}
			return a.printPlace(p, nil)
		},
	}
	addEntityFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a place; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cur, err := a.svc.GetPlace(ctx, args[0])
			if err != nil {
				return err
			}
			photos, err := readUploads(cmd)
			if err != nil {
				return err
			}
			remove, _ := cmd.Flags().GetIntSlice("remove-photo")
			p, err := a.svc.UpdatePlace(ctx, cur.ID, service.PlaceInput{
				Name:         stringFlag(cmd, "name", cur.Name),
				Description:  stringFlag(cmd, "description", cur.Description),
				Images:       sliceFlag(cmd, "image", cur.Images),
				Tags:         sliceFlag(cmd, "tag", cur.Tags),
				Photos:       photos,
				RemovePhotos: remove,
			})
			if err != nil {
				return err
			}
			objects, err := a.svc.ObjectsInPlace(ctx, p.ID)
			if err != nil {
				return err
			}
			return a.printPlace(p, objects)
		},
	}
	addEntityFlags(update)
	update.Flags().IntSlice("remove-photo", nil, "index of a photo to remove, counted after new uploads are appended")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an empty place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.DeletePlace(cmd.Context(), args[0])
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <id>",
		Short: "Delete every object in a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.svc.DeleteAllObjectsInPlace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(map[string]int{"removed": n})
			}
			_, err = fmt.Fprintf(a.out, "removed %d objects\n", n)
			return err
		},
	}

	cmd.AddCommand(list, get, create, update, del, clearCmd)
	return cmd
}
