package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/azzam2912/xseon-real/internal/service"
)

// addEntityFlags registers the flags shared by object and place create/update.
func addEntityFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "name")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().StringSlice("image", nil, "image URL (repeatable or comma separated)")
	cmd.Flags().StringSlice("tag", nil, "tag id (repeatable or comma separated)")
	cmd.Flags().StringArray("photo", nil, "path of a photo to upload (repeatable)")
}

// readUploads loads the files named by --photo.
func readUploads(cmd *cobra.Command) ([]service.Upload, error) {
	paths, _ := cmd.Flags().GetStringArray("photo")
	uploads := make([]service.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
		uploads = append(uploads, service.Upload{
			Filename: filepath.Base(p),
			MimeType: mime.TypeByExtension(filepath.Ext(p)),
			Data:     data,
		})
	}
	return uploads, nil
}

// stringFlag returns the flag value when it was given, else fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func sliceFlag(cmd *cobra.Command, name string, fallback []string) []string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetStringSlice(name)
	return v
}

func (a *app) objectsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "objects", Short: "Manage objects"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tag, _ := cmd.Flags().GetString("tag")
			objects, err := a.svc.ListObjects(cmd.Context(), tag)
			if err != nil {
				return err
			}
			return a.printObjects(objects)
		},
	}
	list.Flags().String("tag", "", "only objects carrying this tag id")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.svc.GetObject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printObject(o)
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			photos, err := readUploads(cmd)
			if err != nil {
				return err
			}
			o, err := a.svc.CreateObject(cmd.Context(), service.ObjectInput{
				Name:        stringFlag(cmd, "name", ""),
				Description: stringFlag(cmd, "description", ""),
				Images:      sliceFlag(cmd, "image", nil),
				Tags:        sliceFlag(cmd, "tag", nil),
				PlaceID:     stringFlag(cmd, "place", ""),
				Photos:      photos,
			})
			if err != nil {
				return err
			}
			return a.printObject(o)
		},
	}
	addEntityFlags(create)
	create.Flags().String("place", "", "id of the place holding the object")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an object; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cur, err := a.svc.GetObject(ctx, args[0])
			if err != nil {
				return err
			}
			photos, err := readUploads(cmd)
			if err != nil {
				return err
			}
			remove, _ := cmd.Flags().GetIntSlice("remove-photo")
			o, err := a.svc.UpdateObject(ctx, cur.ID, service.ObjectInput{
				Name:         stringFlag(cmd, "name", cur.Name),
				Description:  stringFlag(cmd, "description", cur.Description),
				Images:       sliceFlag(cmd, "image", cur.Images),
				Tags:         sliceFlag(cmd, "tag", cur.Tags),
				PlaceID:      stringFlag(cmd, "place", cur.PlaceID),
				Photos:       photos,
				RemovePhotos: remove,
			})
			if err != nil {
				return err
			}
			return a.printObject(o)
		},
	}
	addEntityFlags(update)
	update.Flags().String("place", "", "id of the place holding the object, empty to clear")
	update.Flags().IntSlice("remove-photo", nil, "index of a photo to remove, counted after new uploads are appended")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.DeleteObject(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}
