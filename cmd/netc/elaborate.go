package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"netc/internal/diagfmt"
	"netc/internal/driver"
	"netc/internal/ir"
)

var elaborateCmd = &cobra.Command{
	Use:   "elaborate <entry.yaml>",
	Short: "Elaborate a design and write the atomized netlist",
	Long: `Elaborate resolves the imports of the entry file, expands every pattern
and writes the atomized program. Diagnostics go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runElaborate,
}

func init() {
	elaborateCmd.Flags().String("emit", "json", "output format (json|msgpack|none)")
	elaborateCmd.Flags().StringP("output", "o", "-", "output file (\"-\" for stdout)")
	elaborateCmd.Flags().Bool("stats", false, "print a summary table to stderr")
	elaborateCmd.Flags().Bool("with-notes", false, "show diagnostic notes")
	addPipelineFlags(elaborateCmd)
}

func runElaborate(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	emit, err := cmd.Flags().GetString("emit")
	if err != nil {
		return fmt.Errorf("failed to get emit flag: %w", err)
	}
	emit = strings.ToLower(emit)
	switch emit {
	case "json", "msgpack", "none":
	default:
		return fmt.Errorf("unsupported emit format %q (must be json, msgpack or none)", emit)
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if emit == "msgpack" && output == "-" && isTerminal(os.Stdout) {
		return fmt.Errorf("refusing to write msgpack to a terminal, use -o")
	}

	stats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	res, err := runPipeline(cmd, args[0])
	if err != nil {
		return err
	}

	if err := printPretty(cmd, cmd.ErrOrStderr(), os.Stderr, res, diagfmt.PrettyOpts{ShowNotes: withNotes}); err != nil {
		return err
	}
	if res.Program == nil {
		cmd.SilenceErrors = true
		return errDiagnostics
	}

	if emit != "none" {
		if err := writeProgram(cmd.OutOrStdout(), output, emit, res.Program); err != nil {
			return err
		}
	}
	if stats {
		return printStats(cmd.ErrOrStderr(), os.Stderr, res)
	}
	return nil
}

// writeProgram encodes p to path, or to stdout for "-".
func writeProgram(stdout io.Writer, path, emit string, p *ir.Program) (err error) {
	w := stdout
	if path != "-" && path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("failed to create %q: %w", path, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %q: %w", path, cerr)
			}
		}()
		w = f
	}
	return encodeProgram(w, emit, p)
}

func encodeProgram(w io.Writer, emit string, p *ir.Program) error {
	switch emit {
	case "msgpack":
		return ir.EncodeSnapshot(w, p)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the elaboration disk cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := driver.OpenDiskCache("netc")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		removed, err := cache.Clear()
		if err != nil {
			return fmt.Errorf("failed to clear disk cache: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached result(s) from %s\n", removed, cache.Dir())
		return nil
	},
}
