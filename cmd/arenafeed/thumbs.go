package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/arenafeed/pkg/storage"
	"github.com/spf13/cobra"
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs",
	Short: "Manage the cached clip thumbnails",
}

var thumbsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached thumbnails",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		ids, err := store.ListThumbs()
		if err != nil {
			return err
		}
		for _, id := range ids {
			data, err := store.GetThumb(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d bytes\n", id, len(data))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d thumbnails\n", len(ids))
		return nil
	},
}

var thumbsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached thumbnail",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		ids, err := store.ListThumbs()
		if err != nil {
			return err
		}
		for _, id := range ids {
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "would delete %s\n", id)
				continue
			}
			if err := store.DeleteThumb(id); err != nil {
				return err
			}
		}
		if !dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ deleted %d thumbnails\n", len(ids))
		}
		return nil
	},
}

func init() {
	thumbsCmd.PersistentFlags().String("data-dir", "", "Data directory (defaults to the configured data_dir)")
	thumbsPurgeCmd.Flags().Bool("dry-run", false, "Show what would be deleted without making changes")

	thumbsCmd.AddCommand(thumbsListCmd)
	thumbsCmd.AddCommand(thumbsPurgeCmd)
}

// openStore opens the store of an existing data directory
func openStore(cmd *cobra.Command) (*storage.BoltStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath := filepath.Join(cfg.DataDir, "arenafeed.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found at %s", dbPath)
	}
	return storage.NewBoltStore(cfg.DataDir)
}
