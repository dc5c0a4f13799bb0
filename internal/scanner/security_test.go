package scanner

import (
	"testing"

	"github.com/andywolf/codelens/internal/security"
)

func TestRiskLevel(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		issues int
		want   RiskLevel
	}{
		{0, RiskLow},
		{2, RiskLow},
		{3, RiskMedium},
		{5, RiskMedium},
		{6, RiskHigh},
		{10, RiskHigh},
		{11, RiskCritical},
	}

	for _, tt := range tests {
		if got := riskLevel(tt.issues, w); got != tt.want {
			t.Errorf("riskLevel(%d) = %q, want %q", tt.issues, got, tt.want)
		}
	}
}

func TestComplianceLevel(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		issues, want int
	}{
		{0, 100},
		{3, 85},
		{20, 0},
		{25, 0},
	}

	for _, tt := range tests {
		if got := complianceLevel(tt.issues, w); got != tt.want {
			t.Errorf("complianceLevel(%d) = %d, want %d", tt.issues, got, tt.want)
		}
	}
}

func TestFileRisks(t *testing.T) {
	scrubber := security.NewScrubber()
	f := NewSourceFile(FileInput{
		Filename: "worker.py",
		Content:  "import pickle, os\n\nobj = pickle.loads(blob)\nos.system(cmd)\nresult = eval(expr)\nAPI_KEY = \"abcdefghijklmnopqrstuvwx\"\n",
	})

	hits := fileRisks(f, "python", scrubber)
	got := make(map[string]int)
	for _, h := range hits {
		got[h.Name] = h.Occurrences
		if h.File != "worker.py" || h.Language != "python" {
			t.Errorf("hit not attributed to file: %+v", h)
		}
	}

	want := map[string]int{
		"unsafe deserialization":  1,
		"shell command execution": 1,
		"dynamic code execution":  1,
		"hardcoded api key":       1,
	}
	for name, n := range want {
		if got[name] != n {
			t.Errorf("%s occurrences = %d, want %d (all: %v)", name, got[name], n, got)
		}
	}
}

func TestFileRisks_LanguageScoped(t *testing.T) {
	scrubber := security.NewScrubber()
	f := NewSourceFile(FileInput{Filename: "notes.md", Content: "Never call eval(x) in production.\n"})

	if hits := fileRisks(f, UnknownLanguage, scrubber); len(hits) != 0 {
		t.Errorf("expected no hits for unknown language, got %+v", hits)
	}
}

func TestSecurityProfile(t *testing.T) {
	w := DefaultWeights()
	files := sourceFiles(
		FileInput{Filename: "b.js", Content: "const hash = await bcrypt.hash(pw, 10);\n"},
	)
	hits := []VulnerablePattern{
		{Name: "dynamic code execution", Language: "javascript", File: "b.js", Occurrences: 2},
		{Name: "aws access key id", Language: "javascript", File: "a.js", Occurrences: 1},
	}

	p := securityProfile(files, hits, w)
	if p.TotalIssues != 3 || p.RiskLevel != RiskMedium || p.ComplianceLevel != 85 {
		t.Errorf("unexpected grading: %+v", p)
	}
	if p.VulnerablePatterns[0].File != "a.js" {
		t.Errorf("patterns not sorted by file: %+v", p.VulnerablePatterns)
	}
	if len(p.SecurityFeatures) != 1 || p.SecurityFeatures[0] != "strong password hashing" {
		t.Errorf("security features = %v", p.SecurityFeatures)
	}

	recs := make(map[string]bool)
	for _, r := range p.Recommendations {
		recs[r] = true
	}
	for _, r := range []string{
		"Replace eval-style dynamic execution with explicit dispatch",
		"Move credentials out of source code into a secret store",
		"Serve traffic over TLS",
	} {
		if !recs[r] {
			t.Errorf("missing recommendation %q in %v", r, p.Recommendations)
		}
	}
	if recs["Hash passwords with bcrypt, scrypt, or argon2"] {
		t.Error("should not recommend a feature that is already present")
	}
}

func TestSecurityProfile_CleanProject(t *testing.T) {
	p := securityProfile(nil, nil, DefaultWeights())

	if p.RiskLevel != RiskLow || p.ComplianceLevel != 100 || p.TotalIssues != 0 {
		t.Errorf("unexpected grading: %+v", p)
	}
	if p.VulnerablePatterns == nil || p.SecurityFeatures == nil || p.Recommendations == nil {
		t.Error("collections should be empty, not nil")
	}
	if len(p.Recommendations) != 0 {
		t.Errorf("expected no recommendations at low risk, got %v", p.Recommendations)
	}
}
