package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pybridge/internal/diag"
	"pybridge/internal/diagfmt"
	"pybridge/internal/driver"
	"pybridge/internal/gen"
	"pybridge/internal/project"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] [directory]",
	Short: "Generate Go bridge stubs from validated declarations",
	Long: `Validate declaration batches and emit Go method tables for every exposed type.
Without arguments the declarations directory comes from pybridge.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGen,
}

func init() {
	genCmd.Flags().String("out", "", "output directory (default: [gen].out from pybridge.toml)")
	genCmd.Flags().String("package", "bridge", "package name for the generated file")
	genCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	genCmd.Flags().Bool("disk-cache", false, "reuse cached results for unchanged batches")
}

// runGen executes the "gen" command: validate every batch, refuse to generate
// when any batch has errors, otherwise write the bridge-stub file.
func runGen(cmd *cobra.Command, args []string) error {
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return fmt.Errorf("failed to get package flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
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
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	declsDir, outDir, limit, err := resolveGenDirs(args, outDir, maxDiagnostics)
	if err != nil {
		return err
	}

	opts := driver.Options{
		MaxDiagnostics: limit,
		Jobs:           jobs,
	}
	if enableDiskCache {
		cache, err := driver.OpenDiskCache("pybridge")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	fs, results, err := driver.CheckDir(cmd.Context(), declsDir, opts)
	if err != nil {
		return err
	}

	bag := diag.NewBag(limit)
	driver.Collect(results, bag)
	bag.Sort()

	if bag.HasErrors() {
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(colorMode),
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
		})
		cmd.SilenceUsage = true
		return fmt.Errorf("declarations have errors; nothing generated")
	}

	var types []gen.TypeMethods
	for _, r := range results {
		if len(r.Descriptors) == 0 {
			continue
		}
		types = append(types, gen.TypeMethods{Type: r.Type, Descriptors: r.Descriptors})
	}

	if err := gen.WriteFile(outDir, "bridge_gen.go", pkg, types); err != nil {
		return fmt.Errorf("failed to write bridge stubs: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d types)\n", filepath.Join(outDir, "bridge_gen.go"), len(types))
	}
	return nil
}

// resolveGenDirs picks the declarations and output directories from the
// argument, the flags, and pybridge.toml, in that priority.
func resolveGenDirs(args []string, outFlag string, maxDiagnostics int) (declsDir, outDir string, limit int, err error) {
	limit = maxDiagnostics

	startDir := "."
	if len(args) > 0 && args[0] != "" {
		startDir = args[0]
	}

	manifest, ok, err := project.LoadProject(startDir)
	if err != nil {
		return "", "", 0, err
	}
	if ok {
		declsDir = manifest.DeclsDir
		outDir = manifest.OutDir
		if manifest.MaxDiagnostics > 0 {
			limit = manifest.MaxDiagnostics
		}
	} else {
		// без манифеста аргумент и есть директория с декларациями
		declsDir = startDir
		outDir = filepath.Join(startDir, "gen")
	}

	if outFlag != "" {
		outDir = outFlag
	}

	if st, serr := os.Stat(declsDir); serr != nil || !st.IsDir() {
		return "", "", 0, fmt.Errorf("declarations directory %q not found", declsDir)
	}
	return declsDir, outDir, limit, nil
}
