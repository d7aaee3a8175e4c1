package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"absubmit/internal/library"
	"absubmit/internal/services"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the audio catalog",
	}

	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibraryImportCommand(ctx))
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibrarySetCommand(ctx))

	return libraryCmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var item library.Item

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add or update a single audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			item.Path = path
			if strings.TrimSpace(item.Format) == "" {
				item.Format = library.FormatFromPath(path)
			}
			return ctx.withStore(func(store *library.Store) error {
				added, err := store.Add(cmd.Context(), item)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item #%d: %s (%s)\n", added.ID, added.Path, added.Format)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&item.MBTrackID, "mbid", "", "MusicBrainz recording id")
	cmd.Flags().StringVar(&item.Format, "format", "", "Format tag (defaults to the file extension)")
	cmd.Flags().StringVar(&item.MoodAcoustic, "mood", "", "Existing mood_acoustic value")
	cmd.Flags().StringVar(&item.Artist, "artist", "", "Artist name")
	cmd.Flags().StringVar(&item.Title, "title", "", "Track title")
	cmd.Flags().StringVar(&item.Album, "album", "", "Album title")
	return cmd
}

func newLibraryImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Add every audio file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store) error {
				stats, err := store.Import(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new, %d already present, %d ignored\n",
					stats.Added, stats.Existing, stats.Ignored)
				return nil
			})
		},
	}
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query...]",
		Short: "List catalog items matching a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store) error {
				items, err := store.Select(cmd.Context(), args...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No items")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.Format,
						item.MBTrackID,
						yesNo(item.ExistingAnalysis() != ""),
						item.DisplayName(),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Format", "MBID", "Analyzed", "Item"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
}

func newLibrarySetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Set a field on a catalog item",
		Long: "Set a field on a catalog item. Editable fields: " +
			strings.Join(library.EditableFields(), ", ") + ".",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return services.Wrap(services.ErrValidation, "library", "set", fmt.Sprintf("invalid item id %q", args[0]), err)
			}
			return ctx.withStore(func(store *library.Store) error {
				item, err := store.SetField(cmd.Context(), id, args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item #%d: %s = %q\n", item.ID, strings.ToLower(args[1]), strings.TrimSpace(args[2]))
				return nil
			})
		},
	}
}
