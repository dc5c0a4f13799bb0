package scanner

import (
	"math"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// generateCandidates runs every detector against every signature and returns
// the candidates whose raw score is positive.
func generateCandidates(f SourceFile, sigs []LanguageSignature) []LanguageCandidate {
	lines := splitLines(f.Content)
	interp := shebangInterpreter(lines)
	words := wordSet(f.Content)

	var out []LanguageCandidate
	emit := func(lang string, m Method, score float64) {
		if score > 0 {
			out = append(out, LanguageCandidate{Language: lang, Confidence: score, Method: m})
		}
	}

	for i := range sigs {
		sig := &sigs[i]
		emit(sig.Name, MethodShebang, detectShebang(sig, interp))
		emit(sig.Name, MethodExtension, detectExtension(sig, f.Extension))
		emit(sig.Name, MethodSyntax, detectSyntax(sig, lines))
		emit(sig.Name, MethodPattern, detectPatterns(sig, f.Content))
		emit(sig.Name, MethodKeyword, detectKeywords(sig, words))
	}
	return out
}

// shebangInterpreter extracts the interpreter name from a "#!" first line,
// with any version suffix removed ("python3.11" becomes "python").
func shebangInterpreter(lines []string) string {
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "#!") {
		return ""
	}
	fields := strings.Fields(strings.TrimPrefix(lines[0], "#!"))
	if len(fields) == 0 {
		return ""
	}
	prog := filepath.Base(fields[0])
	if prog == "env" {
		prog = ""
		for _, arg := range fields[1:] {
			if !strings.HasPrefix(arg, "-") {
				prog = arg
				break
			}
		}
	}
	return strings.TrimRightFunc(prog, func(r rune) bool {
		return unicode.IsDigit(r) || r == '.'
	})
}

func detectShebang(sig *LanguageSignature, interp string) float64 {
	if interp == "" {
		return 0
	}
	for _, name := range sig.Interpreters {
		if name == interp {
			return shebangConfidence
		}
	}
	return 0
}

func detectExtension(sig *LanguageSignature, ext string) float64 {
	if ext == "" {
		return 0
	}
	for _, e := range sig.Extensions {
		if e == ext {
			return extensionConfidence
		}
	}
	return 0
}

func detectSyntax(sig *LanguageSignature, lines []string) float64 {
	if sig.Syntax == nil {
		return 0
	}
	var nonEmpty, matched int
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		nonEmpty++
		if sig.Syntax.MatchString(l) {
			matched++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	ratio := float64(matched) / float64(nonEmpty)
	return math.Min(syntaxCeiling, ratio*100*2)
}

func detectPatterns(sig *LanguageSignature, content string) float64 {
	if len(sig.ContentPatterns) == 0 || content == "" {
		return 0
	}
	matched := 0
	for _, re := range sig.ContentPatterns {
		if re.MatchString(content) {
			matched++
		}
	}
	return math.Min(patternCeiling, float64(matched)/float64(len(sig.ContentPatterns))*100)
}

func detectKeywords(sig *LanguageSignature, words map[string]struct{}) float64 {
	if len(sig.Keywords) == 0 || len(words) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range sig.Keywords {
		if _, ok := words[kw]; ok {
			matched++
			continue
		}
		if _, ok := words[strings.ToLower(kw)]; ok {
			matched++
		}
	}
	return math.Min(keywordCeiling, float64(matched)/float64(len(sig.Keywords))*100)
}

// wordSet returns the set of identifier-like tokens in content.
func wordSet(content string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(content, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	}) {
		set[w] = struct{}{}
	}
	return set
}

// mergedCandidate is the per-language accumulator used while merging.
type mergedCandidate struct {
	confidence float64
	methods    []Method
}

func (m *mergedCandidate) has(method Method) bool {
	for _, x := range m.methods {
		if x == method {
			return true
		}
	}
	return false
}

// mergeCandidates collapses a file's candidates into a single winner. The
// winner is the language with the highest weighted confidence; ties go to the
// language the file extension names, then to the language backed by more
// methods, then to the lexically smaller name.
func mergeCandidates(cands []LanguageCandidate, w Weights) (string, float64, []Method) {
	if len(cands) == 0 {
		return UnknownLanguage, 0, nil
	}

	byLang := make(map[string]*mergedCandidate)
	for _, c := range cands {
		weighted := clamp(c.Confidence * w.methodWeight(c.Method))
		m, ok := byLang[c.Language]
		if !ok {
			m = &mergedCandidate{}
			byLang[c.Language] = m
		}
		if weighted > m.confidence {
			m.confidence = weighted
		}
		m.methods = append(m.methods, c.Method)
	}

	names := make([]string, 0, len(byLang))
	for name := range byLang {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := byLang[names[i]], byLang[names[j]]
		if a.confidence != b.confidence {
			return a.confidence > b.confidence
		}
		if ae, be := a.has(MethodExtension), b.has(MethodExtension); ae != be {
			return ae
		}
		if len(a.methods) != len(b.methods) {
			return len(a.methods) > len(b.methods)
		}
		return names[i] < names[j]
	})

	top := byLang[names[0]]
	if top.confidence <= 0 {
		return UnknownLanguage, 0, nil
	}
	return names[0], round2(top.confidence), top.methods
}

// languageTotals accumulates per-language aggregation inputs.
type languageTotals struct {
	files         int
	bytes         int
	maxConfidence float64
	extensions    map[string]struct{}
}

// aggregateLanguages rolls per-file winners into the project language list.
// Files classified as unknown are skipped; totals use every file.
func aggregateLanguages(files []FileAnalysis, w Weights) []LanguageInfo {
	if len(files) == 0 {
		return []LanguageInfo{}
	}

	totalBytes := 0
	for _, f := range files {
		totalBytes += f.Size
	}

	byLang := make(map[string]*languageTotals)
	for _, f := range files {
		if f.Language == UnknownLanguage {
			continue
		}
		t, ok := byLang[f.Language]
		if !ok {
			t = &languageTotals{extensions: make(map[string]struct{})}
			byLang[f.Language] = t
		}
		t.files++
		t.bytes += f.Size
		if f.Confidence > t.maxConfidence {
			t.maxConfidence = f.Confidence
		}
		if f.Extension != "" {
			t.extensions[f.Extension] = struct{}{}
		}
	}

	languages := make([]LanguageInfo, 0, len(byLang))
	for name, t := range byLang {
		fileShare := float64(t.files) / float64(len(files)) * 100
		byteShare := 0.0
		if totalBytes > 0 {
			byteShare = float64(t.bytes) / float64(totalBytes) * 100
		}
		conf := math.Round(t.maxConfidence*w.AggregateConfidence +
			fileShare*w.AggregateFileShare +
			byteShare*w.AggregateByteShare)

		info := LanguageInfo{
			Name:       name,
			Confidence: clamp(conf),
			FileCount:  t.files,
			Bytes:      t.bytes,
			Extensions: sortedKeys(t.extensions),
		}
		if sig, ok := lookupSignature(name); ok {
			info.Category = sig.Category
			info.Ecosystem = sig.Ecosystem
			info.Features = append([]string(nil), sig.Features...)
		}
		languages = append(languages, info)
	}

	sort.Slice(languages, func(i, j int) bool {
		if languages[i].Confidence != languages[j].Confidence {
			return languages[i].Confidence > languages[j].Confidence
		}
		return languages[i].Name < languages[j].Name
	})
	return languages
}

// UnknownLanguageInfo is the sentinel primary language for empty results.
func UnknownLanguageInfo() LanguageInfo {
	return LanguageInfo{Name: UnknownLanguage, Extensions: []string{}, Category: UnknownLanguage}
}

// PrimaryLanguage returns the head of a sorted language list or the unknown
// sentinel.
func PrimaryLanguage(languages []LanguageInfo) LanguageInfo {
	if len(languages) == 0 {
		return UnknownLanguageInfo()
	}
	return languages[0]
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
