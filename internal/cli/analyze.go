package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andywolf/codelens/internal/collector"
	"github.com/andywolf/codelens/internal/config"
	"github.com/andywolf/codelens/internal/history"
	"github.com/andywolf/codelens/internal/logging"
	"github.com/andywolf/codelens/internal/report"
	"github.com/andywolf/codelens/internal/scanner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Analyze a source tree",
	Long: `Analyze classifies every source file under dir (default: the current
directory) and prints a report covering languages, frameworks, project
structure, dependencies, code metrics and security findings.

Example:
  codelens analyze
  codelens analyze ./services/api --format json --output report.json
  codelens analyze . --workers 4 --max-files 5000 --history`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyzeProject,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("format", "f", "", "Report format (json, yaml, text)")
	analyzeCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().Int("workers", 0, "Number of files analyzed concurrently (default: CPU count)")
	analyzeCmd.Flags().Int("max-files", 0, "Maximum number of files to collect")
	analyzeCmd.Flags().Bool("history", false, "Record this run in the history log")

	_ = viper.BindPFlag("output.format", analyzeCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.path", analyzeCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("analysis.workers", analyzeCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("analysis.max_files", analyzeCmd.Flags().Lookup("max-files"))
	_ = viper.BindPFlag("history.enabled", analyzeCmd.Flags().Lookup("history"))
}

func analyzeProject(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(
		logging.WithVerbose(viper.GetBool("verbose")),
		logging.WithLabels(map[string]string{"command": "analyze"}),
	)

	out := cmd.OutOrStdout()
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := runAnalysis(ctx, root, cfg, logger, out)
	if err != nil {
		return err
	}

	if cfg.Output.Path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", cfg.Output.Path)
	}
	if cfg.History.Enabled {
		return recordRun(cfg.History.Path, root, logger, result)
	}
	return nil
}

// runAnalysis collects the files under root, scans them and renders the
// report to out.
func runAnalysis(ctx context.Context, root string, cfg *config.Config, logger *logging.Logger, out io.Writer) (*scanner.DetectionResult, error) {
	files, stats, err := collector.Collect(ctx, root, collector.Options{
		MaxFiles:        cfg.Analysis.MaxFiles,
		MaxFileSize:     cfg.Analysis.MaxFileSize,
		Exclude:         cfg.Analysis.Exclude,
		IncludeVendored: cfg.Analysis.IncludeVendored,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}

	logger.Info("collected source files", map[string]interface{}{
		"root":    root,
		"files":   stats.Files,
		"size":    humanize.Bytes(uint64(stats.Bytes)),
		"skipped": stats.Skipped,
	})
	if stats.Skipped[collector.SkipLimit] > 0 {
		logger.Warningf("file limit of %d reached; remaining files were not analyzed", cfg.Analysis.MaxFiles)
	}

	s := scanner.New(
		scanner.WithWorkers(cfg.Analysis.Workers),
		scanner.WithWeights(cfg.Weights),
		scanner.WithSkipHook(func(file string, err error) {
			logger.Warning("skipped unparseable manifest", map[string]interface{}{
				"file":  file,
				"error": err.Error(),
			})
		}),
	)
	w := s.Weights()
	logger.Debug("scanner configured", map[string]interface{}{
		"workers":            cfg.Analysis.Workers,
		"frontend_threshold": w.FrontendThreshold,
		"backend_threshold":  w.BackendThreshold,
		"mobile_threshold":   w.MobileThreshold,
	})

	result, err := s.Analyze(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	logger.Debug("analysis complete", map[string]interface{}{
		"primary_language": result.PrimaryLanguage.Name,
		"quality_score":    result.QualityScore,
		"analysis_time_ms": result.AnalysisTime,
	})

	if err := report.Render(out, result, cfg.Output.Format); err != nil {
		return nil, err
	}
	return result, nil
}

func recordRun(path, root string, logger *logging.Logger, result *scanner.DetectionResult) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	store := history.NewStore(path)
	if err := store.Append(history.NewRecord(logger.RunID(), abs, time.Now(), result)); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	logger.Debug("recorded run", map[string]interface{}{"path": store.Path()})
	return nil
}
