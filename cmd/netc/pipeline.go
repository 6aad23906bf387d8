package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"netc/internal/diagfmt"
	"netc/internal/driver"
	"netc/internal/ui"
)

// errDiagnostics is returned after diagnostics with errors were printed;
// cobra stays silent and main exits with 1.
var errDiagnostics = errors.New("")

// pipelineFlags are the command-local knobs shared by elaborate and diag.
type pipelineFlags struct {
	noWarnings       bool
	warningsAsErrors bool
	diskCache        bool
}

func readPipelineFlags(cmd *cobra.Command) (pipelineFlags, error) {
	var pf pipelineFlags
	var err error
	pf.noWarnings, err = cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return pf, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	pf.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return pf, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	pf.diskCache, err = cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return pf, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	return pf, nil
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-warnings", false, "drop warnings")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Bool("disk-cache", false, "reuse results cached under the user cache directory")
}

// buildOptions merges global flags with netc.toml found above the entry
// file. Flags set on the command line win over the manifest.
func buildOptions(cmd *cobra.Command, entry string, pf pipelineFlags) (driver.Options, error) {
	root := cmd.Root().PersistentFlags()

	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	maxAtoms, err := root.GetInt("max-atoms")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-atoms flag: %w", err)
	}
	jobs, err := root.GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	libs, err := root.GetStringArray("lib")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get lib flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}

	manifest, _, err := loadProjectManifest(filepath.Dir(entry))
	if err != nil {
		return driver.Options{}, err
	}
	if manifest != nil {
		if !root.Changed("max-atoms") && manifest.Config.Pattern.MaxAtoms > 0 {
			maxAtoms = manifest.Config.Pattern.MaxAtoms
		}
		if !root.Changed("max-diagnostics") && manifest.Config.Diag.Max > 0 {
			maxDiagnostics = manifest.Config.Diag.Max
		}
		libs = append(libs, manifest.LibRoots()...)
	}

	opts := driver.Options{
		LibRoots:         libs,
		Jobs:             jobs,
		MaxAtoms:         maxAtoms,
		MaxDiagnostics:   maxDiagnostics,
		IgnoreWarnings:   pf.noWarnings,
		WarningsAsErrors: pf.warningsAsErrors,
		EnableTimings:    showTimings,
	}
	if pf.diskCache {
		cache, err := driver.OpenDiskCache("netc")
		if err != nil {
			return driver.Options{}, fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

// runPipeline elaborates entry with options taken from flags and manifest.
func runPipeline(cmd *cobra.Command, entry string) (*driver.Result, error) {
	if _, err := os.Stat(entry); err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", entry, err)
	}
	pf, err := readPipelineFlags(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := buildOptions(cmd, entry, pf)
	if err != nil {
		return nil, err
	}
	return driver.Elaborate(cmd.Context(), entry, opts)
}

func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (expected: auto|on|off)", colorFlag)
	}
}

// printPretty writes the bag with the default human options.
func printPretty(cmd *cobra.Command, w io.Writer, f *os.File, res *driver.Result, opts diagfmt.PrettyOpts) error {
	color, err := useColor(cmd, f)
	if err != nil {
		return err
	}
	opts.Color = color
	if opts.Context == 0 {
		opts.Context = 2
	}
	diagfmt.Pretty(w, res.Bag, res.FileSet, opts)
	return nil
}

// printStats renders the elaboration summary to w.
func printStats(w io.Writer, f *os.File, res *driver.Result) error {
	if res.Program == nil {
		return nil
	}
	width := 80
	if isTerminal(f) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}
	files := 0
	if res.FileSet != nil {
		files = res.FileSet.Len()
	}
	return ui.Render(w, ui.Collect(res.Program, files, res.CacheHit, res.Timings), width)
}
