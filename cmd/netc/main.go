package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"netc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "netc",
	Short: "Netlist elaborator for pattern-based hardware descriptions",
	Long: `netc reads YAML design files, expands net and instance patterns,
binds them along named axes and writes an atomized netlist.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupCommand,
}

// main registers subcommands and global flags and runs the root command.
// A non-nil error from the command exits with status 1.
func main() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(elaborateCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 200, "maximum number of diagnostics to keep")
	rootCmd.PersistentFlags().Int("max-atoms", 0, "maximum atoms per expression (0 = manifest or built-in default)")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel file loads (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringArray("lib", nil, "library root searched for imports (repeatable)")

	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|stage|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")

	err := rootCmd.Execute()
	closeTracing()
	if err != nil {
		os.Exit(1)
	}
}

// setupCommand runs before every subcommand.
func setupCommand(cmd *cobra.Command, _ []string) error {
	return setupTracing(cmd)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
