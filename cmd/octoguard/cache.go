// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var forceCacheClear bool

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheClearCmd.Flags().BoolVarP(&forceCacheClear, "force", "f", false, "force deletion without confirmation")
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage octoguard's local HTTP response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the local HTTP response cache",
	Long: `Deletes octoguard's disk-backed HTTP response cache, located within the
user's standard cache location (e.g. $XDG_CACHE_HOME/octoguard on Linux).
Requires the --force flag to proceed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cachePath := flagCacheDir
		if cachePath == "" {
			userCacheDir, err := os.UserCacheDir()
			if err != nil {
				return fmt.Errorf("failed to get user cache directory: %w", err)
			}
			cachePath = filepath.Join(userCacheDir, "octoguard")
		}

		if _, err := os.Stat(cachePath); err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("Cache directory '%s' does not exist. Nothing to clear.\n", cachePath)
				return nil
			}
			return fmt.Errorf("failed to check status of cache directory '%s': %w", cachePath, err)
		}

		if !forceCacheClear {
			return fmt.Errorf("cache directory '%s' exists. Use the -f or --force flag to confirm deletion", cachePath)
		}

		fmt.Printf("Removing cache directory '%s'...\n", cachePath)
		if err := os.RemoveAll(cachePath); err != nil {
			return fmt.Errorf("failed removing cache directory '%s': %w", cachePath, err)
		}

		if _, err := os.Stat(cachePath); os.IsNotExist(err) {
			fmt.Printf("Cache directory '%s' removed successfully.\n", cachePath)
		} else if err != nil {
			return fmt.Errorf("removed '%s', but failed to verify removal status: %w", cachePath, err)
		} else {
			return fmt.Errorf("attempted to remove cache directory '%s', but it still exists", cachePath)
		}

		return nil
	},
}
