// Package report renders detection results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/codelens/internal/scanner"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
)

// Render writes r to w in the named format.
func Render(w io.Writer, r *scanner.DetectionResult, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, r)
	case FormatYAML:
		return renderYAML(w, r)
	case FormatText, "":
		return renderText(w, r)
	default:
		return fmt.Errorf("unsupported format %q (must be json, yaml, or text)", format)
	}
}

func renderJSON(w io.Writer, r *scanner.DetectionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

func renderYAML(w io.Writer, r *scanner.DetectionResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return enc.Close()
}

func renderText(w io.Writer, r *scanner.DetectionResult) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("codelens report") + "\n\n")

	if len(r.AllLanguages) == 0 {
		b.WriteString(mutedStyle.Render("No recognizable source files.") + "\n")
	} else {
		fmt.Fprintf(&b, "Primary language  %s (%.0f%%)\n", r.PrimaryLanguage.Name, r.PrimaryLanguage.Confidence)
	}
	fmt.Fprintf(&b, "Project type      %s (%.0f%%)\n", r.ProjectStructure.Type, r.ProjectStructure.Confidence)
	fmt.Fprintf(&b, "Files             %s\n", humanize.Comma(int64(r.TotalFiles)))
	fmt.Fprintf(&b, "Quality score     %s\n", scoreStyle(r.QualityScore).Render(fmt.Sprintf("%d/100", r.QualityScore)))
	fmt.Fprintf(&b, "Risk level        %s\n", riskStyle(r.SecurityProfile.RiskLevel).Render(string(r.SecurityProfile.RiskLevel)))

	if len(r.AllLanguages) > 0 {
		b.WriteString("\n" + headingStyle.Render("Languages") + "\n")
		for _, l := range r.AllLanguages {
			fmt.Fprintf(&b, "  %-14s %5.1f%%  %4d files  %s\n",
				l.Name, l.Confidence, l.FileCount, humanize.Bytes(uint64(l.Bytes)))
		}
	}

	if len(r.Frameworks) > 0 {
		b.WriteString("\n" + headingStyle.Render("Frameworks") + "\n")
		for _, f := range r.Frameworks {
			fmt.Fprintf(&b, "  %-14s %5.1f%%  %s\n", f.Name, f.Confidence, mutedStyle.Render(f.Category))
		}
	}

	if len(r.BuildTools) > 0 || len(r.PackageManagers) > 0 {
		b.WriteString("\n" + headingStyle.Render("Tooling") + "\n")
		if len(r.BuildTools) > 0 {
			fmt.Fprintf(&b, "  build tools       %s\n", strings.Join(r.BuildTools, ", "))
		}
		if len(r.PackageManagers) > 0 {
			fmt.Fprintf(&b, "  package managers  %s\n", strings.Join(r.PackageManagers, ", "))
		}
	}

	m := r.CodeMetrics
	b.WriteString("\n" + headingStyle.Render("Metrics") + "\n")
	fmt.Fprintf(&b, "  lines             %s (code %s, comment %s, blank %s)\n",
		humanize.Comma(int64(m.TotalLines)), humanize.Comma(int64(m.CodeLines)),
		humanize.Comma(int64(m.CommentLines)), humanize.Comma(int64(m.BlankLines)))
	fmt.Fprintf(&b, "  complexity        %d\n", m.Complexity)
	fmt.Fprintf(&b, "  maintainability   %d\n", m.MaintainabilityIndex)
	fmt.Fprintf(&b, "  duplication       %.1f%%\n", m.DuplicateCodePercentage)
	fmt.Fprintf(&b, "  technical debt    %s\n", m.TechnicalDebt)

	if len(r.Dependencies) > 0 {
		b.WriteString("\n" + headingStyle.Render(fmt.Sprintf("Dependencies (%d)", len(r.Dependencies))) + "\n")
		for _, d := range r.Dependencies {
			version := d.Version
			if version == "" {
				version = "*"
			}
			fmt.Fprintf(&b, "  %s %s %s\n", d.Name, version, mutedStyle.Render(string(d.Type)))
		}
	}

	sp := r.SecurityProfile
	if len(sp.VulnerablePatterns) > 0 || len(sp.Recommendations) > 0 {
		b.WriteString("\n" + headingStyle.Render("Security") + "\n")
		for _, p := range sp.VulnerablePatterns {
			fmt.Fprintf(&b, "  %s  %s x%d\n", p.File, p.Name, p.Occurrences)
		}
		for _, rec := range sp.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", mutedStyle.Render(fmt.Sprintf("analyzed in %dms", r.AnalysisTime)))

	_, err := io.WriteString(w, b.String())
	return err
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 75:
		return goodStyle
	case score >= 50:
		return warnStyle
	default:
		return badStyle
	}
}

func riskStyle(level scanner.RiskLevel) lipgloss.Style {
	switch level {
	case scanner.RiskLow:
		return goodStyle
	case scanner.RiskMedium:
		return warnStyle
	default:
		return badStyle
	}
}
