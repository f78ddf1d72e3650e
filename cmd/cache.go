package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cwrapped/internal/pipeline"
	"cwrapped/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed-data cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe the SQLite cache so the next run reparses everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := pipeline.CachePath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("Cache is already empty.")
			return nil
		}

		cache, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer func() { _ = cache.Close() }()

		if err := cache.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
