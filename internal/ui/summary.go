// Package ui renders the human summary printed by `netc elaborate --stats`.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"netc/internal/ir"
	"netc/internal/observ"
)

// ModuleStats counts the atomized entities of one module.
type ModuleStats struct {
	Name      string
	Ports     int
	Nets      int
	Instances int
	Endpoints int
	Defaults  int
}

// Stats summarizes one elaboration.
type Stats struct {
	Top      string
	Files    int
	Devices  int
	CacheHit bool
	// Modules in emit order, leaf first.
	Modules []ModuleStats
	Stages  []observ.StageReport
}

// Collect gathers Stats from an atomized program.
func Collect(p *ir.Program, files int, cacheHit bool, timings observ.Report) Stats {
	s := Stats{
		Files:    files,
		Devices:  len(p.Devices),
		CacheHit: cacheHit,
		Stages:   timings.Stages,
	}
	if top := p.Modules[p.Top]; top != nil {
		s.Top = top.Name
	}
	for _, id := range p.EmitOrder {
		m := p.Modules[id]
		ms := ModuleStats{
			Name:      m.Name,
			Ports:     len(m.Ports),
			Nets:      len(m.Nets),
			Instances: len(m.Instances),
			Endpoints: len(m.Endpoints),
		}
		for _, ep := range m.Endpoints {
			if ep.Default {
				ms.Defaults++
			}
		}
		s.Modules = append(s.Modules, ms)
	}
	return s
}

// Render writes the summary table. Colour follows what the renderer
// detects for w, so plain writers get plain text.
func Render(w io.Writer, s Stats, width int) error {
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	headStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	topStyle := r.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	header := fmt.Sprintf("top %s: %d module(s), %d device(s), %d file(s)", s.Top, len(s.Modules), s.Devices, s.Files)
	if s.CacheHit {
		header += " (cached)"
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := 6
	for _, m := range s.Modules {
		nameWidth = max(nameWidth, runewidth.StringWidth(m.Name))
	}
	if width > 0 {
		nameWidth = min(nameWidth, max(width-44, 12))
	}

	b.WriteString(headStyle.Render(fmt.Sprintf("  %s %6s %6s %9s %9s %8s",
		pad("module", nameWidth), "ports", "nets", "instances", "endpoints", "defaults")))
	b.WriteString("\n")
	for _, m := range s.Modules {
		name := pad(truncate(m.Name, nameWidth), nameWidth)
		if m.Name == s.Top {
			name = topStyle.Render(name)
		}
		fmt.Fprintf(&b, "  %s %6d %6d %9d %9d %8d\n", name, m.Ports, m.Nets, m.Instances, m.Endpoints, m.Defaults)
	}

	if len(s.Stages) > 0 {
		b.WriteString("\n")
		var total float64
		for _, st := range s.Stages {
			total += st.DurationMS
			line := fmt.Sprintf("  %-8s %8.2f ms", st.Name, st.DurationMS)
			if st.Note != "" {
				line += "  " + dimStyle.Render(st.Note)
			}
			b.WriteString(line + "\n")
		}
		fmt.Fprintf(&b, "  %-8s %8.2f ms\n", "total", total)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pad(value string, width int) string {
	return runewidth.FillRight(value, width)
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
