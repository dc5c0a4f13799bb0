package scanner

import "math"

// qualityScore blends maintainability, compliance, documentation, and
// duplication into a single 0-100 score. An empty file set scores 0.
func qualityScore(files []FileAnalysis, metrics CodeMetrics, compliance int, w Weights) int {
	if len(files) == 0 {
		return 0
	}

	docSum := 0
	for _, f := range files {
		docSum += f.DocumentationScore
	}
	meanDoc := float64(docSum) / float64(len(files))

	duplication := 100 - math.Min(50, metrics.DuplicateCodePercentage*2)
	score := w.QualityMaintainability*float64(metrics.MaintainabilityIndex) +
		w.QualityCompliance*float64(compliance) +
		w.QualityDocumentation*meanDoc +
		w.QualityDuplication*duplication
	return int(clamp(math.Round(score)))
}
