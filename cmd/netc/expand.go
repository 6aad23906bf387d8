package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"netc/internal/diag"
	"netc/internal/diagfmt"
	"netc/internal/pattern"
	"netc/internal/source"
)

var expandCmd = &cobra.Command{
	Use:   "expand <expression>",
	Short: "Expand a single pattern expression",
	Long: `Expand prints the atoms of one pattern expression, e.g.

  netc expand 'd[3:0];clk'
  netc expand --named rows='<0,1>' 'U<@rows>'`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().StringArray("named", nil, "named pattern name=definition (repeatable)")
	expandCmd.Flags().Bool("no-splice", false, "reject ';'-separated segments")
	expandCmd.Flags().Bool("compact", false, "print atoms folded back into pattern notation")
	expandCmd.Flags().String("format", "text", "output format (text|json)")
}

func runExpand(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	namedFlags, err := cmd.Flags().GetStringArray("named")
	if err != nil {
		return fmt.Errorf("failed to get named flag: %w", err)
	}
	noSplice, err := cmd.Flags().GetBool("no-splice")
	if err != nil {
		return fmt.Errorf("failed to get no-splice flag: %w", err)
	}
	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	maxAtoms, err := cmd.Root().PersistentFlags().GetInt("max-atoms")
	if err != nil {
		return fmt.Errorf("failed to get max-atoms flag: %w", err)
	}
	named, err := parseNamedFlags(namedFlags)
	if err != nil {
		return err
	}

	exp, fs, bag := expandExpression(args[0], named, pattern.Options{
		MaxAtoms: maxAtoms,
		NoSplice: noSplice,
	})

	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: color, Context: 0})
	if exp == nil {
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return writeExpansion(cmd.OutOrStdout(), exp, format, compact)
}

// parseNamedFlags turns name=definition pairs into a map.
func parseNamedFlags(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, v := range values {
		name, def, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --named value %q (want name=definition)", v)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("named pattern %q given twice", name)
		}
		out[name] = strings.TrimSpace(def)
	}
	return out, nil
}

// expandExpression expands raw from the command line. Every input gets a
// virtual file so diagnostics can point inside it.
func expandExpression(raw string, named map[string]string, opts pattern.Options) (*pattern.Expansion, *source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	bag := diag.NewBag(100)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	valid := true
	for _, name := range names {
		def := named[name]
		id := fs.AddVirtual("--named "+name, []byte(def))
		if !pattern.ValidateNamed(name, def, source.Span{File: id, End: uint32(len(def))}, rep) {
			valid = false
		}
	}

	id := fs.AddVirtual("<expr>", []byte(raw))
	opts.Named = named
	opts.Span = source.Span{File: id, End: uint32(len(raw))}
	if !valid {
		return nil, fs, bag
	}
	exp, ok := pattern.Expand(raw, opts, rep)
	if !ok || bag.HasErrors() {
		return nil, fs, bag
	}
	return exp, fs, bag
}

type expansionJSON struct {
	Expr    string     `json:"expr"`
	Count   int        `json:"count"`
	Spliced bool       `json:"spliced"`
	Atoms   []atomJSON `json:"atoms"`
	Axes    []axisJSON `json:"axes,omitempty"`
}

type atomJSON struct {
	Literal  string         `json:"literal"`
	BaseName string         `json:"base_name"`
	Segment  int            `json:"segment"`
	Parts    []pattern.Part `json:"parts,omitempty"`
}

type axisJSON struct {
	ID     string `json:"id,omitempty"`
	Length int    `json:"length"`
}

func writeExpansion(w io.Writer, exp *pattern.Expansion, format string, compact bool) error {
	if format == "json" {
		payload := expansionJSON{
			Count:   exp.Len(),
			Spliced: exp.Spliced(),
			Atoms:   make([]atomJSON, len(exp.Atoms)),
		}
		if exp.Expr != nil {
			payload.Expr = exp.Expr.Raw
		}
		for i, a := range exp.Atoms {
			payload.Atoms[i] = atomJSON{Literal: a.Literal, BaseName: a.BaseName, Segment: a.SegmentIndex, Parts: a.Parts}
		}
		for _, ax := range exp.Axes {
			payload.Axes = append(payload.Axes, axisJSON{ID: ax.ID, Length: ax.Length})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	if compact {
		_, err := fmt.Fprintln(w, pattern.Render(exp.Atoms))
		return err
	}
	for _, lit := range exp.Literals() {
		if _, err := fmt.Fprintln(w, lit); err != nil {
			return err
		}
	}
	return nil
}
