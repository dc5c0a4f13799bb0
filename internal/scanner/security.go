package scanner

import (
	"regexp"
	"sort"

	"github.com/andywolf/codelens/internal/security"
)

// riskPattern is a call shape that signals a likely vulnerability.
type riskPattern struct {
	name string
	re   *regexp.Regexp
}

func risk(name, expr string) riskPattern {
	return riskPattern{name: name, re: regexp.MustCompile(expr)}
}

var (
	jsRisks = []riskPattern{
		risk("dynamic code execution", `\beval\s*\(`),
		risk("dynamic function construction", `\bnew\s+Function\s*\(`),
		risk("unsafe html injection", `\.innerHTML\s*=|\bdangerouslySetInnerHTML\b|\bdocument\.write\s*\(`),
		risk("string timer evaluation", `\bset(Timeout|Interval)\s*\(\s*["'\x60]`),
		risk("shell command execution", `\bchild_process\b|\bexecSync\s*\(`),
	}

	riskPatterns = map[string][]riskPattern{
		"javascript": jsRisks,
		"typescript": jsRisks,
		"python": {
			risk("dynamic code execution", `\b(eval|exec)\s*\(`),
			risk("unsafe deserialization", `\bpickle\.loads?\s*\(|\byaml\.load\s*\([^)]*\)`),
			risk("shell command execution", `\bos\.system\s*\(|\bsubprocess\.\w+\([^)]*shell\s*=\s*True`),
			risk("sql string formatting", `\.execute\s*\(\s*f?["'][^"']*(%s|\{)`),
		},
		"php": {
			risk("dynamic code execution", `\beval\s*\(`),
			risk("shell command execution", `\b(system|exec|shell_exec|passthru|popen)\s*\(`),
			risk("unsanitized request input", `\$_(GET|POST|REQUEST|COOKIE)\[`),
			risk("unsafe deserialization", `\bunserialize\s*\(`),
			risk("legacy mysql api", `\bmysql_query\s*\(`),
		},
		"ruby": {
			risk("dynamic code execution", `\b(eval|instance_eval|class_eval)\s*[( ]`),
			risk("shell command execution", `\bsystem\s*\(|%x\{|\bIO\.popen\b`),
			risk("unsafe deserialization", `\bMarshal\.load\b|\bYAML\.load\b`),
			risk("dynamic dispatch from input", `\.send\s*\(\s*params`),
		},
		"java": {
			risk("shell command execution", `\bRuntime\.getRuntime\(\)\.exec\s*\(|\bnew\s+ProcessBuilder\s*\(`),
			risk("unsafe deserialization", `\bnew\s+ObjectInputStream\s*\(`),
			risk("sql string concatenation", `\.(executeQuery|executeUpdate|execute)\s*\(\s*"[^"]*"\s*\+`),
		},
		"kotlin": {
			risk("shell command execution", `\bRuntime\.getRuntime\(\)\.exec\s*\(`),
		},
		"go": {
			risk("shell command execution", `\bexec\.Command\s*\(`),
			risk("unsafe memory access", `\bunsafe\.Pointer\b`),
			risk("disabled tls verification", `InsecureSkipVerify:\s*true`),
			risk("weak hash", `"crypto/(md5|sha1)"`),
		},
		"c": {
			risk("unbounded buffer copy", `\b(strcpy|strcat|gets|sprintf)\s*\(`),
			risk("shell command execution", `\bsystem\s*\(`),
		},
		"cpp": {
			risk("unbounded buffer copy", `\b(strcpy|strcat|gets|sprintf)\s*\(`),
			risk("shell command execution", `\bsystem\s*\(`),
		},
		"csharp": {
			risk("shell command execution", `\bProcess\.Start\s*\(`),
			risk("unsafe deserialization", `\bBinaryFormatter\b`),
			risk("sql string concatenation", `\bnew\s+SqlCommand\s*\(\s*"[^"]*"\s*\+`),
		},
		"shell": {
			risk("dynamic code execution", `(?m)^\s*eval\s`),
			risk("remote script piping", `\b(curl|wget)\b[^|\n]*\|\s*(sudo\s+)?(ba)?sh\b`),
			risk("world-writable permissions", `\bchmod\s+(-R\s+)?777\b`),
		},
		"rust": {
			risk("unsafe block", `\bunsafe\s*\{`),
		},
	}
)

// securityFeatures are hardening practices detected by presence only.
var securityFeatures = []struct {
	name string
	re   *regexp.Regexp
}{
	{"access control middleware", regexp.MustCompile(`\bhelmet\s*\(|@PreAuthorize\b|@UseGuards\b|\blogin_required\b|\bpermission_required\b|\bauthMiddleware\b|\brequireAuth\b|\[Authorize\]`)},
	{"strong password hashing", regexp.MustCompile(`(?i)\b(bcrypt|argon2|scrypt|pbkdf2)\b|\bPasswordHasher\b`)},
	{"token-based authentication", regexp.MustCompile(`\bjsonwebtoken\b|\bjwt\.(sign|verify|encode|decode|Parse)\b|\bOAuth2\w*|\bpassport\.authenticate\b`)},
	{"transport encryption", regexp.MustCompile(`\bListenAndServeTLS\b|\btls\.Config\b|\bssl_context\b|Strict-Transport-Security|\bhttps\.createServer\b|\bSECURE_SSL_REDIRECT\b`)},
	{"input validation", regexp.MustCompile(`\bexpress-validator\b|\b(joi|zod|yup)\b|\bpydantic\b|@Valid\b|\bvalidator\.\w+\(`)},
	{"csrf protection", regexp.MustCompile(`(?i)\bcsrf|\bcsurf\b`)},
	{"rate limiting", regexp.MustCompile(`(?i)\brate[-_]?limit|\bthrottle\b`)},
}

// fileRisks scans one file for risk patterns and embedded credentials and
// returns the hits in a stable order.
func fileRisks(f SourceFile, language string, scrubber *security.Scrubber) []VulnerablePattern {
	var hits []VulnerablePattern
	for _, p := range riskPatterns[language] {
		n := len(p.re.FindAllStringIndex(f.Content, -1))
		if n > 0 {
			hits = append(hits, VulnerablePattern{Name: p.name, Language: language, File: f.Filename, Occurrences: n})
		}
	}
	for _, finding := range scrubber.Find(f.Content) {
		hits = append(hits, VulnerablePattern{Name: finding.Name, Language: language, File: f.Filename, Occurrences: finding.Count})
	}
	return hits
}

// securityProfile grades the run from per-file hits.
func securityProfile(files []SourceFile, hits []VulnerablePattern, w Weights) SecurityProfile {
	total := 0
	for _, h := range hits {
		total += h.Occurrences
	}

	profile := SecurityProfile{
		RiskLevel:          riskLevel(total, w),
		TotalIssues:        total,
		VulnerablePatterns: append([]VulnerablePattern{}, hits...),
		SecurityFeatures:   []string{},
		ComplianceLevel:    complianceLevel(total, w),
	}
	sort.SliceStable(profile.VulnerablePatterns, func(i, j int) bool {
		a, b := profile.VulnerablePatterns[i], profile.VulnerablePatterns[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Name < b.Name
	})

	for _, feat := range securityFeatures {
		for _, f := range files {
			if feat.re.MatchString(f.Content) {
				profile.SecurityFeatures = append(profile.SecurityFeatures, feat.name)
				break
			}
		}
	}

	profile.Recommendations = recommendations(profile)
	return profile
}

func riskLevel(total int, w Weights) RiskLevel {
	switch {
	case total > w.RiskCritical:
		return RiskCritical
	case total > w.RiskHigh:
		return RiskHigh
	case total > w.RiskMedium:
		return RiskMedium
	}
	return RiskLow
}

func complianceLevel(total int, w Weights) int {
	c := 100 - w.CompliancePenalty*total
	if c < 0 {
		return 0
	}
	return c
}

var patternAdvice = map[string]string{
	"dynamic code execution":        "Replace eval-style dynamic execution with explicit dispatch",
	"dynamic function construction": "Avoid constructing functions from strings",
	"unsafe html injection":         "Render untrusted content through an escaping template layer",
	"string timer evaluation":       "Pass functions, not strings, to timers",
	"shell command execution":       "Avoid shell invocation or pass arguments without a shell",
	"unsafe deserialization":        "Use a safe deserializer for untrusted data",
	"sql string formatting":         "Use parameterized queries",
	"sql string concatenation":      "Use parameterized queries",
	"unsanitized request input":     "Validate and sanitize request input",
	"unbounded buffer copy":         "Use bounded string functions",
	"disabled tls verification":     "Keep TLS certificate verification enabled",
	"weak hash":                     "Use SHA-256 or stronger hashes",
	"remote script piping":          "Download and verify scripts before executing them",
	"world-writable permissions":    "Grant the narrowest file permissions that work",
}

var featureAdvice = map[string]string{
	"access control middleware":  "Add access control middleware to protected routes",
	"strong password hashing":    "Hash passwords with bcrypt, scrypt, or argon2",
	"token-based authentication": "Adopt token-based authentication for APIs",
	"transport encryption":       "Serve traffic over TLS",
	"input validation":           "Validate input with a schema library",
}

// recommendations derives advice from detected risks and, once the risk
// level reaches medium, from missing hardening features.
func recommendations(p SecurityProfile) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	names := make([]string, 0)
	credentials := false
	for _, vp := range p.VulnerablePatterns {
		if advice, ok := patternAdvice[vp.Name]; ok {
			names = append(names, advice)
		} else {
			credentials = true
		}
	}
	sort.Strings(names)
	for _, n := range names {
		add(n)
	}
	if credentials {
		add("Move credentials out of source code into a secret store")
	}

	if p.RiskLevel == RiskLow {
		return out
	}
	present := make(map[string]bool)
	for _, f := range p.SecurityFeatures {
		present[f] = true
	}
	for _, feat := range securityFeatures {
		if !present[feat.name] {
			add(featureAdvice[feat.name])
		}
	}
	return out
}
