// Package scanner classifies a set of source files and scores their quality.
//
// Given a list of (filename, content) pairs it determines the dominant
// languages, detected frameworks, the project archetype, build and package
// tooling, and a set of code-quality and security metrics. A scan is a pure
// function of its input plus the static signature registry.
package scanner

import "regexp"

// FileInput is a raw (filename, content) pair as supplied by the caller.
type FileInput struct {
	Filename string `json:"filename" yaml:"filename"`
	Content  string `json:"content" yaml:"content"`
}

// SourceFile is a normalized input file. It is never modified after intake.
type SourceFile struct {
	Filename  string
	Extension string
	Content   string
	Size      int
	Encoding  string
}

// Method names a single detection heuristic.
type Method string

const (
	MethodShebang   Method = "shebang"
	MethodExtension Method = "extension"
	MethodSyntax    Method = "syntax"
	MethodPattern   Method = "pattern"
	MethodKeyword   Method = "keyword"
)

// UnknownLanguage is the language name assigned to files no signature claims.
const UnknownLanguage = "unknown"

// LanguageSignature is a static rule bundle describing one language.
type LanguageSignature struct {
	Name            string
	Extensions      []string
	Interpreters    []string
	Syntax          *regexp.Regexp
	ContentPatterns []*regexp.Regexp
	Keywords        []string
	Category        string
	Ecosystem       string
	Features        []string
}

// LanguageCandidate is one method's claim that a file is written in a language.
type LanguageCandidate struct {
	Language   string
	Confidence float64
	Method     Method
}

// FileAnalysis is the per-file outcome of a scan.
type FileAnalysis struct {
	Filename             string   `json:"filename" yaml:"filename"`
	Extension            string   `json:"extension" yaml:"extension"`
	Language             string   `json:"language" yaml:"language"`
	Confidence           float64  `json:"confidence" yaml:"confidence"`
	Methods              []string `json:"methods,omitempty" yaml:"methods,omitempty"`
	Encoding             string   `json:"encoding" yaml:"encoding"`
	Size                 int      `json:"size" yaml:"size"`
	LineCount            int      `json:"line_count" yaml:"line_count"`
	CodeLines            int      `json:"code_lines" yaml:"code_lines"`
	CommentLines         int      `json:"comment_lines" yaml:"comment_lines"`
	BlankLines           int      `json:"blank_lines" yaml:"blank_lines"`
	Complexity           int      `json:"complexity" yaml:"complexity"`
	MaintainabilityIndex int      `json:"maintainability_index" yaml:"maintainability_index"`
	DuplicateLineCount   int      `json:"duplicate_line_count" yaml:"duplicate_line_count"`
	SecurityIssueCount   int      `json:"security_issue_count" yaml:"security_issue_count"`
	DocumentationScore   int      `json:"documentation_score" yaml:"documentation_score"`
}

// LanguageInfo describes a language detected at project level.
type LanguageInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	FileCount  int      `json:"file_count" yaml:"file_count"`
	Bytes      int      `json:"bytes" yaml:"bytes"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	Category   string   `json:"category" yaml:"category"`
	Ecosystem  string   `json:"ecosystem,omitempty" yaml:"ecosystem,omitempty"`
	Features   []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// FrameworkInfo describes a detected framework. Several may coexist.
type FrameworkInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Language     string   `json:"language" yaml:"language"`
	Confidence   float64  `json:"confidence" yaml:"confidence"`
	Category     string   `json:"category" yaml:"category"`
	Ecosystem    string   `json:"ecosystem" yaml:"ecosystem"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	ConfigFiles  []string `json:"config_files" yaml:"config_files"`
}

// Archetype is a coarse project classification.
type Archetype string

const (
	ArchetypeWeb          Archetype = "web"
	ArchetypeMobile       Archetype = "mobile"
	ArchetypeLibrary      Archetype = "library"
	ArchetypeMicroservice Archetype = "microservice"
	ArchetypeMonorepo     Archetype = "monorepo"
	ArchetypeDesktop      Archetype = "desktop"
	ArchetypeUnknown      Archetype = "unknown"
)

// ProjectStructure is the archetype assigned to the whole file set.
type ProjectStructure struct {
	Type       Archetype `json:"type" yaml:"type"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	Indicators []string  `json:"indicators" yaml:"indicators"`
}

// CodeMetrics holds project-wide size and health figures.
type CodeMetrics struct {
	TotalLines              int     `json:"total_lines" yaml:"total_lines"`
	CodeLines               int     `json:"code_lines" yaml:"code_lines"`
	CommentLines            int     `json:"comment_lines" yaml:"comment_lines"`
	BlankLines              int     `json:"blank_lines" yaml:"blank_lines"`
	Complexity              int     `json:"complexity" yaml:"complexity"`
	MaintainabilityIndex    int     `json:"maintainability_index" yaml:"maintainability_index"`
	TechnicalDebt           string  `json:"technical_debt" yaml:"technical_debt"`
	DuplicateCodePercentage float64 `json:"duplicate_code_percentage" yaml:"duplicate_code_percentage"`
}

// DependencyType is the manifest section a dependency was declared in.
type DependencyType string

const (
	DependencyProduction  DependencyType = "production"
	DependencyDevelopment DependencyType = "development"
	DependencyPeer        DependencyType = "peer"
	DependencyOptional    DependencyType = "optional"
)

// DependencyInfo is one declared dependency.
type DependencyInfo struct {
	Name      string         `json:"name" yaml:"name"`
	Version   string         `json:"version,omitempty" yaml:"version,omitempty"`
	Type      DependencyType `json:"type" yaml:"type"`
	Ecosystem string         `json:"ecosystem" yaml:"ecosystem"`
	License   string         `json:"license,omitempty" yaml:"license,omitempty"`
	Manifest  string         `json:"manifest" yaml:"manifest"`
}

// RiskLevel grades the run-wide security issue count.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// VulnerablePattern records hits of one risk pattern in one file.
type VulnerablePattern struct {
	Name        string `json:"name" yaml:"name"`
	Language    string `json:"language" yaml:"language"`
	File        string `json:"file" yaml:"file"`
	Occurrences int    `json:"occurrences" yaml:"occurrences"`
}

// SecurityProfile summarizes risky patterns and hardening features.
type SecurityProfile struct {
	RiskLevel          RiskLevel           `json:"risk_level" yaml:"risk_level"`
	TotalIssues        int                 `json:"total_issues" yaml:"total_issues"`
	VulnerablePatterns []VulnerablePattern `json:"vulnerable_patterns" yaml:"vulnerable_patterns"`
	SecurityFeatures   []string            `json:"security_features" yaml:"security_features"`
	ComplianceLevel    int                 `json:"compliance_level" yaml:"compliance_level"`
	Recommendations    []string            `json:"recommendations" yaml:"recommendations"`
}

// DetectionResult is the terminal record of a scan.
type DetectionResult struct {
	PrimaryLanguage  LanguageInfo     `json:"primary_language" yaml:"primary_language"`
	AllLanguages     []LanguageInfo   `json:"all_languages" yaml:"all_languages"`
	Frameworks       []FrameworkInfo  `json:"frameworks" yaml:"frameworks"`
	ProjectStructure ProjectStructure `json:"project_structure" yaml:"project_structure"`
	BuildTools       []string         `json:"build_tools" yaml:"build_tools"`
	PackageManagers  []string         `json:"package_managers" yaml:"package_managers"`
	TotalFiles       int              `json:"total_files" yaml:"total_files"`
	AnalysisTime     int64            `json:"analysis_time_ms" yaml:"analysis_time_ms"`
	Accuracy         float64          `json:"accuracy" yaml:"accuracy"`
	DetectionMethods []string         `json:"detection_methods" yaml:"detection_methods"`
	CodeMetrics      CodeMetrics      `json:"code_metrics" yaml:"code_metrics"`
	Dependencies     []DependencyInfo `json:"dependencies" yaml:"dependencies"`
	SecurityProfile  SecurityProfile  `json:"security_profile" yaml:"security_profile"`
	QualityScore     int              `json:"quality_score" yaml:"quality_score"`
	Files            []FileAnalysis   `json:"files" yaml:"files"`
}
