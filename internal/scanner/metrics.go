package scanner

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// commentSyntax describes how a language marks comments.
type commentSyntax struct {
	line  []string
	block [][2]string
}

var (
	cStyleComments  = commentSyntax{line: []string{"//"}, block: [][2]string{{"/*", "*/"}}}
	hashComments    = commentSyntax{line: []string{"#"}}
	defaultComments = commentSyntax{line: []string{"//", "#"}, block: [][2]string{{"/*", "*/"}}}
)

var commentsByLanguage = map[string]commentSyntax{
	"javascript": cStyleComments,
	"typescript": cStyleComments,
	"java":       cStyleComments,
	"kotlin":     cStyleComments,
	"go":         cStyleComments,
	"rust":       cStyleComments,
	"c":          cStyleComments,
	"cpp":        cStyleComments,
	"csharp":     cStyleComments,
	"swift":      cStyleComments,
	"dart":       cStyleComments,
	"scala":      cStyleComments,
	"php":        {line: []string{"//", "#"}, block: [][2]string{{"/*", "*/"}}},
	"css":        {block: [][2]string{{"/*", "*/"}}},
	"python":     {line: []string{"#"}, block: [][2]string{{`"""`, `"""`}, {"'''", "'''"}}},
	"ruby":       {line: []string{"#"}, block: [][2]string{{"=begin", "=end"}}},
	"shell":      hashComments,
	"perl":       {line: []string{"#"}, block: [][2]string{{"=pod", "=cut"}}},
	"r":          hashComments,
	"elixir":     {line: []string{"#"}, block: [][2]string{{`@doc """`, `"""`}, {`@moduledoc """`, `"""`}}},
	"lua":        {line: []string{"--"}, block: [][2]string{{"--[[", "]]"}}},
	"sql":        {line: []string{"--"}, block: [][2]string{{"/*", "*/"}}},
	"html":       {block: [][2]string{{"<!--", "-->"}}},
}

func commentsFor(language string) commentSyntax {
	if c, ok := commentsByLanguage[language]; ok {
		return c
	}
	return defaultComments
}

var cStyleBranches = regexp.MustCompile(`\b(if|else|for|while|switch|case|catch)\b|&&|\|\||\?\?`)

var complexityRules = map[string]*regexp.Regexp{
	"python": regexp.MustCompile(`\b(if|elif|else|for|while|except|and|or)\b`),
	"ruby":   regexp.MustCompile(`\b(if|elsif|else|unless|while|until|for|case|when|rescue|and|or)\b|&&|\|\|`),
	"shell":  regexp.MustCompile(`\b(if|elif|else|for|while|until|case)\b|&&|\|\|`),
	"lua":    regexp.MustCompile(`\b(if|elseif|else|for|while|repeat|and|or)\b`),
	"elixir": regexp.MustCompile(`\b(if|else|unless|case|cond|with|rescue|and|or)\b|&&|\|\|`),
	"go":     regexp.MustCompile(`\b(if|else|for|switch|case|select)\b|&&|\|\|`),
	"rust":   regexp.MustCompile(`\b(if|else|for|while|loop|match)\b|=>|&&|\|\||\?`),
	"sql":    regexp.MustCompile(`(?i)\b(case|when|and|or)\b`),
}

func complexityRule(language string) *regexp.Regexp {
	if re, ok := complexityRules[language]; ok {
		return re
	}
	return cStyleBranches
}

// lineCounts is the classification of a file's lines.
type lineCounts struct {
	total, code, comment, blank int
	codeText                    []string
}

// classifyLines labels each line as blank, comment, or code.
func classifyLines(lines []string, syntax commentSyntax) lineCounts {
	c := lineCounts{total: len(lines)}
	closing := ""
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if closing != "" {
			if line == "" {
				c.blank++
			} else {
				c.comment++
			}
			if strings.Contains(line, closing) {
				closing = ""
			}
			continue
		}
		if line == "" {
			c.blank++
			continue
		}
		if isLineComment(line, syntax) {
			c.comment++
			continue
		}
		if end, ok := openedBlock(line, syntax); ok {
			c.comment++
			closing = end
			continue
		}
		c.code++
		c.codeText = append(c.codeText, line)
	}
	return c
}

func isLineComment(line string, syntax commentSyntax) bool {
	for _, p := range syntax.line {
		if strings.HasPrefix(line, p) {
			// "--[[" is a block opener in Lua, not a line comment.
			for _, b := range syntax.block {
				if strings.HasPrefix(line, b[0]) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// openedBlock reports whether line starts a block comment and, when the block
// stays open past this line, the delimiter that closes it.
func openedBlock(line string, syntax commentSyntax) (string, bool) {
	for _, b := range syntax.block {
		if !strings.HasPrefix(line, b[0]) {
			continue
		}
		rest := line[len(b[0]):]
		if strings.Contains(rest, b[1]) {
			return "", true
		}
		return b[1], true
	}
	return "", false
}

// complexity approximates cyclomatic complexity by counting branch and
// logical-operator tokens on code lines.
func complexity(codeLines []string, language string) int {
	re := complexityRule(language)
	n := 1
	for _, l := range codeLines {
		n += len(re.FindAllStringIndex(l, -1))
	}
	return n
}

// duplicateLines sums occurrences-1 over every distinct non-blank trimmed
// line that appears more than once.
func duplicateLines(lines []string) int {
	counts := make(map[string]int)
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		counts[t]++
	}
	dups := 0
	for _, n := range counts {
		if n > 1 {
			dups += n - 1
		}
	}
	return dups
}

// maintainabilityIndex computes the bounded maintainability index. A file
// without code lines scores 100.
func maintainabilityIndex(codeLines, commentLines, cplx int, w Weights) int {
	if codeLines == 0 {
		return 100
	}
	loc := float64(codeLines)
	volume := loc * math.Log2(loc+1)
	commentRatio := float64(commentLines) / float64(codeLines+commentLines)
	mi := w.MIBase -
		w.MIVolume*math.Log(volume) -
		w.MIComplexity*float64(cplx) -
		w.MILines*math.Log(loc) +
		w.MIComments*math.Sin(math.Sqrt(2.4*commentRatio))
	return int(math.Max(0, math.Min(100, math.Round(mi))))
}

// documentationScore is the comment-to-code ratio as a bounded percentage.
func documentationScore(codeLines, commentLines int) int {
	if codeLines == 0 {
		return 100
	}
	return int(math.Min(100, math.Round(float64(commentLines)/float64(codeLines)*100)))
}

// technicalDebt formats the estimated remediation time.
func technicalDebt(codeLines, cplx int, w Weights) string {
	minutes := float64(codeLines)*w.DebtPerCodeLine + float64(cplx)*w.DebtPerComplexity
	return formatDebt(minutes)
}

func formatDebt(minutes float64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", int(math.Round(minutes)))
	case minutes < 24*60:
		return fmt.Sprintf("%.1fh", minutes/60)
	default:
		return fmt.Sprintf("%.1fd", minutes/(24*60))
	}
}

// projectMetrics rolls per-file figures into project totals. The
// maintainability index is the mean of the per-file indices.
func projectMetrics(files []FileAnalysis, w Weights) CodeMetrics {
	m := CodeMetrics{TechnicalDebt: formatDebt(0)}
	if len(files) == 0 {
		return m
	}

	var miSum, dups int
	for _, f := range files {
		m.TotalLines += f.LineCount
		m.CodeLines += f.CodeLines
		m.CommentLines += f.CommentLines
		m.BlankLines += f.BlankLines
		m.Complexity += f.Complexity
		miSum += f.MaintainabilityIndex
		dups += f.DuplicateLineCount
	}
	m.MaintainabilityIndex = int(math.Round(float64(miSum) / float64(len(files))))
	m.TechnicalDebt = technicalDebt(m.CodeLines, m.Complexity, w)
	if m.CodeLines > 0 {
		m.DuplicateCodePercentage = round2(math.Min(100, float64(dups)/float64(m.CodeLines)*100))
	}
	return m
}
