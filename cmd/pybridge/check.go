package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pybridge/internal/diag"
	"pybridge/internal/diagfmt"
	"pybridge/internal/driver"
	"pybridge/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <batch.decls.json|directory>",
	Short: "Validate exposed method declarations",
	Long:  `Validate declaration batches and report role or shape violations for every exposed method`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "reuse cached results for unchanged batches")
}

// runCheck executes the "check" command: it validates the given batch file or
// every batch in a directory, renders diagnostics in the chosen format, and
// exits non-zero when any diagnostic is an error.
func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	enableDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	switch strings.ToLower(format) {
	case "pretty", "json", "short":
		// supported
	default:
		return fmt.Errorf("unknown format %q (must be pretty, json, or short)", format)
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if enableDiskCache {
		cache, err := driver.OpenDiskCache("pybridge")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	fs, results, err := checkPath(cmd, path, st.IsDir(), opts)
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiagnostics)
	driver.Collect(results, bag)
	bag.Sort()

	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		err = diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest,
		})
		if err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	case "short":
		diagfmt.Short(out, bag, fs, pathMode)
	default:
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(colorMode),
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowFixes: suggest,
		})
	}

	if bag.HasErrors() {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

func checkPath(cmd *cobra.Command, path string, isDir bool, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	ctx := cmd.Context()
	if isDir {
		return driver.CheckDir(ctx, path, opts)
	}
	return driver.CheckFiles(ctx, []string{path}, filepath.Dir(path), opts)
}
