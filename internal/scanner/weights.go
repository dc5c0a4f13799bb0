package scanner

// Weights holds every heuristic constant the scanner uses. The values are
// empirical; DefaultWeights returns the calibrated set and callers may
// override individual fields through configuration.
type Weights struct {
	// Merge weights applied to each method's raw confidence.
	Shebang   float64 `mapstructure:"shebang" yaml:"shebang"`
	Extension float64 `mapstructure:"extension" yaml:"extension"`
	Syntax    float64 `mapstructure:"syntax" yaml:"syntax"`
	Pattern   float64 `mapstructure:"pattern" yaml:"pattern"`
	Keyword   float64 `mapstructure:"keyword" yaml:"keyword"`

	// Project-level language aggregation split.
	AggregateConfidence float64 `mapstructure:"aggregate_confidence" yaml:"aggregate_confidence"`
	AggregateFileShare  float64 `mapstructure:"aggregate_file_share" yaml:"aggregate_file_share"`
	AggregateByteShare  float64 `mapstructure:"aggregate_byte_share" yaml:"aggregate_byte_share"`

	// Maintainability index coefficients.
	MIBase       float64 `mapstructure:"mi_base" yaml:"mi_base"`
	MIVolume     float64 `mapstructure:"mi_volume" yaml:"mi_volume"`
	MIComplexity float64 `mapstructure:"mi_complexity" yaml:"mi_complexity"`
	MILines      float64 `mapstructure:"mi_lines" yaml:"mi_lines"`
	MIComments   float64 `mapstructure:"mi_comments" yaml:"mi_comments"`

	// Technical debt in minutes.
	DebtPerCodeLine   float64 `mapstructure:"debt_per_code_line" yaml:"debt_per_code_line"`
	DebtPerComplexity float64 `mapstructure:"debt_per_complexity" yaml:"debt_per_complexity"`

	// Quality score split.
	QualityMaintainability float64 `mapstructure:"quality_maintainability" yaml:"quality_maintainability"`
	QualityCompliance      float64 `mapstructure:"quality_compliance" yaml:"quality_compliance"`
	QualityDocumentation   float64 `mapstructure:"quality_documentation" yaml:"quality_documentation"`
	QualityDuplication     float64 `mapstructure:"quality_duplication" yaml:"quality_duplication"`

	// Framework acceptance thresholds, one per family.
	FrontendThreshold float64 `mapstructure:"frontend_threshold" yaml:"frontend_threshold"`
	BackendThreshold  float64 `mapstructure:"backend_threshold" yaml:"backend_threshold"`
	MobileThreshold   float64 `mapstructure:"mobile_threshold" yaml:"mobile_threshold"`

	// Security.
	CompliancePenalty int `mapstructure:"compliance_penalty" yaml:"compliance_penalty"`
	RiskMedium        int `mapstructure:"risk_medium" yaml:"risk_medium"`
	RiskHigh          int `mapstructure:"risk_high" yaml:"risk_high"`
	RiskCritical      int `mapstructure:"risk_critical" yaml:"risk_critical"`
}

// DefaultWeights returns the calibrated heuristic constants.
func DefaultWeights() Weights {
	return Weights{
		Shebang:   1.0,
		Extension: 0.8,
		Syntax:    0.9,
		Pattern:   0.7,
		Keyword:   0.6,

		AggregateConfidence: 0.4,
		AggregateFileShare:  0.3,
		AggregateByteShare:  0.3,

		MIBase:       171,
		MIVolume:     5.2,
		MIComplexity: 0.23,
		MILines:      16.2,
		MIComments:   50,

		DebtPerCodeLine:   0.1,
		DebtPerComplexity: 2,

		QualityMaintainability: 0.4,
		QualityCompliance:      0.3,
		QualityDocumentation:   0.2,
		QualityDuplication:     0.1,

		FrontendThreshold: 60,
		BackendThreshold:  50,
		MobileThreshold:   70,

		CompliancePenalty: 5,
		RiskMedium:        2,
		RiskHigh:          5,
		RiskCritical:      10,
	}
}

// methodWeight returns the merge weight for a detection method.
func (w Weights) methodWeight(m Method) float64 {
	switch m {
	case MethodShebang:
		return w.Shebang
	case MethodExtension:
		return w.Extension
	case MethodSyntax:
		return w.Syntax
	case MethodPattern:
		return w.Pattern
	case MethodKeyword:
		return w.Keyword
	}
	return 0
}

// Raw confidence ceilings for each detector.
const (
	shebangConfidence   = 95
	extensionConfidence = 70
	syntaxCeiling       = 85
	patternCeiling      = 90
	keywordCeiling      = 80
)

// clamp bounds a confidence to [0, 100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
