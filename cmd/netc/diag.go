package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"netc/internal/diag"
	"netc/internal/diagfmt"
	"netc/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag <entry.yaml>",
	Short: "Check a design and report diagnostics",
	Long:  `Diag runs the full elaboration and prints diagnostics only; nothing is emitted.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	diagCmd.Flags().Bool("with-notes", false, "include notes")
	diagCmd.Flags().Bool("fullpath", false, "print absolute file paths")
	diagCmd.Flags().String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
	diagCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	addPipelineFlags(diagCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short, json or sarif)", format)
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("invalid path mode %q", pathModeStr)
	}
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	minSeverityStr, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSeverity, err := diag.ParseSeverity(strings.ToLower(minSeverityStr))
	if err != nil {
		return err
	}

	res, err := runPipeline(cmd, args[0])
	if err != nil {
		return err
	}

	if minSeverity > diag.SevInfo {
		res.Bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= minSeverity })
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = printPretty(cmd, out, os.Stdout, res, diagfmt.PrettyOpts{
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "short":
		diagfmt.Short(out, res.Bag, res.FileSet, pathMode)
	case "json":
		err = diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
	case "sarif":
		err = diagfmt.Sarif(out, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "netc",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	}
	if err != nil {
		return err
	}

	if res.Bag.HasErrors() {
		// диагностики уже напечатаны
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}
