package scanner

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andywolf/codelens/internal/security"
)

// Scanner runs the classification and scoring pipeline over in-memory files.
// A Scanner holds only configuration and is safe for concurrent use.
type Scanner struct {
	workers int
	weights Weights
	now     func() time.Time
	onSkip  func(file string, err error)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers bounds the number of files analyzed concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithWeights replaces the heuristic constants.
func WithWeights(w Weights) Option {
	return func(s *Scanner) { s.weights = w }
}

// WithClock sets the time source used for AnalysisTime. A clock that always
// returns the same instant yields an AnalysisTime of zero.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSkipHook registers a callback invoked for every manifest that could
// not be parsed.
func WithSkipHook(fn func(file string, err error)) Option {
	return func(s *Scanner) { s.onSkip = fn }
}

// New creates a Scanner with default weights and one worker per CPU.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
		weights: DefaultWeights(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the heuristic constants in use.
func (s *Scanner) Weights() Weights {
	return s.weights
}

// Analyze classifies and scores files. It fails only when the input list is
// malformed or ctx is cancelled; every other problem degrades gracefully.
func (s *Scanner) Analyze(ctx context.Context, inputs []FileInput) (*DetectionResult, error) {
	start := s.now()

	if err := ValidateInput(inputs); err != nil {
		return nil, err
	}

	files := make([]SourceFile, len(inputs))
	for i, in := range inputs {
		files[i] = NewSourceFile(in)
	}

	analyses, hits, err := s.analyzeFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	methodSet := make(map[string]struct{})
	var allHits []VulnerablePattern
	var confSum float64
	classified := 0
	for i := range analyses {
		for _, m := range analyses[i].Methods {
			methodSet[m] = struct{}{}
		}
		allHits = append(allHits, hits[i]...)
		if analyses[i].Language != UnknownLanguage {
			confSum += analyses[i].Confidence
			classified++
		}
	}

	languages := aggregateLanguages(analyses, s.weights)
	metrics := projectMetrics(analyses, s.weights)
	profile := securityProfile(files, allHits, s.weights)

	result := &DetectionResult{
		PrimaryLanguage:  PrimaryLanguage(languages),
		AllLanguages:     languages,
		Frameworks:       detectFrameworks(files, s.weights),
		ProjectStructure: classifyStructure(files),
		BuildTools:       detectBuildTools(files),
		PackageManagers:  detectPackageManagers(files),
		TotalFiles:       len(files),
		DetectionMethods: sortedKeys(methodSet),
		CodeMetrics:      metrics,
		Dependencies:     parseDependencies(files, s.onSkip),
		SecurityProfile:  profile,
		QualityScore:     qualityScore(analyses, metrics, profile.ComplianceLevel, s.weights),
		Files:            analyses,
	}
	if classified > 0 {
		result.Accuracy = round2(confSum / float64(classified))
	}
	result.AnalysisTime = s.now().Sub(start).Milliseconds()
	return result, nil
}

// analyzeFiles fans per-file work out over a bounded worker pool. Each worker
// writes only its own slot so no locking is needed.
func (s *Scanner) analyzeFiles(ctx context.Context, files []SourceFile) ([]FileAnalysis, [][]VulnerablePattern, error) {
	analyses := make([]FileAnalysis, len(files))
	hits := make([][]VulnerablePattern, len(files))
	sigs := Signatures()
	scrubber := security.NewScrubber()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range files {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			analyses[i], hits[i] = analyzeFile(files[i], sigs, scrubber, s.weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return analyses, hits, nil
}

// analyzeFile produces the immutable per-file record and its security hits.
func analyzeFile(f SourceFile, sigs []LanguageSignature, scrubber *security.Scrubber, w Weights) (FileAnalysis, []VulnerablePattern) {
	lang, conf, methods := mergeCandidates(generateCandidates(f, sigs), w)

	lines := splitLines(f.Content)
	counts := classifyLines(lines, commentsFor(lang))
	cplx := complexity(counts.codeText, lang)
	risks := fileRisks(f, lang, scrubber)

	issues := 0
	for _, r := range risks {
		issues += r.Occurrences
	}

	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	sort.Strings(names)

	return FileAnalysis{
		Filename:             f.Filename,
		Extension:            f.Extension,
		Language:             lang,
		Confidence:           conf,
		Methods:              names,
		Encoding:             f.Encoding,
		Size:                 f.Size,
		LineCount:            counts.total,
		CodeLines:            counts.code,
		CommentLines:         counts.comment,
		BlankLines:           counts.blank,
		Complexity:           cplx,
		MaintainabilityIndex: maintainabilityIndex(counts.code, counts.comment, cplx, w),
		DuplicateLineCount:   duplicateLines(lines),
		SecurityIssueCount:   issues,
		DocumentationScore:   documentationScore(counts.code, counts.comment),
	}, risks
}

// Analyze runs a default Scanner over files.
func Analyze(ctx context.Context, files []FileInput) (*DetectionResult, error) {
	return New().Analyze(ctx, files)
}
