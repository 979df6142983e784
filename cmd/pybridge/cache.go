package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pybridge/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the pybridge disk cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all cached batch results",
	Args:  cobra.NoArgs,
	RunE:  runCacheClean,
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}

func runCacheClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("pybridge")
	if err != nil {
		return fmt.Errorf("failed to open disk cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop disk cache: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "disk cache removed")
	return nil
}
