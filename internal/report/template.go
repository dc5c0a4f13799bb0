package report

import (
	"regexp"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/andywolf/codelens/internal/history"
)

// DefaultHistoryTemplate is the row layout used by `codelens history`.
const DefaultHistoryTemplate = "{{when}}  {{run_id}}  {{primary_language}}  quality {{quality_score}}  risk {{risk_level}}  {{root}}"

// variablePattern matches {{variable}} placeholders.
var variablePattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// Expand substitutes {{variable}} placeholders with values from vars.
// Unknown variables are left as-is in the output.
func Expand(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}

	return variablePattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// RecordVars exposes a history record to Expand. The "when" variable is
// relative to now.
func RecordVars(rec history.Record, now time.Time) map[string]string {
	return map[string]string{
		"run_id":           rec.RunID,
		"timestamp":        rec.Timestamp.Format(time.RFC3339),
		"when":             humanize.RelTime(rec.Timestamp, now, "ago", "from now"),
		"root":             rec.Root,
		"primary_language": rec.PrimaryLanguage,
		"structure":        string(rec.Structure),
		"quality_score":    strconv.Itoa(rec.QualityScore),
		"risk_level":       string(rec.RiskLevel),
		"total_files":      strconv.Itoa(rec.TotalFiles),
		"analysis_time_ms": strconv.FormatInt(rec.AnalysisTimeMs, 10),
	}
}
