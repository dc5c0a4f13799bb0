// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/andywolf/codelens/internal/config"
	"github.com/andywolf/codelens/internal/scanner"
)

// PromptConfig walks the user through the settings written by `codelens init`.
// Detected languages, if any, are shown for context. cfg is updated in place.
func PromptConfig(cfg *config.Config, detected []scanner.LanguageInfo) error {
	workers := strconv.Itoa(cfg.Analysis.Workers)
	exclude := strings.Join(cfg.Analysis.Exclude, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Detected Languages").
				Description(formatLanguages(detected)),

			huh.NewSelect[string]().
				Title("Report Format").
				Options(
					huh.NewOption("Text summary", "text"),
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
				).
				Value(&cfg.Output.Format),

			huh.NewInput().
				Title("Worker Count").
				Value(&workers).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("worker count must be a positive integer")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Exclude Patterns (comma-separated, optional)").
				Value(&exclude),

			huh.NewConfirm().
				Title("Analyze vendored and generated files?").
				Value(&cfg.Analysis.IncludeVendored),

			huh.NewConfirm().
				Title("Record run history?").
				Value(&cfg.History.Enabled),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}

	cfg.Analysis.Workers, _ = strconv.Atoi(strings.TrimSpace(workers))
	cfg.Analysis.Exclude = parseList(exclude)

	return nil
}

// ConfirmOverwrite asks before replacing an existing config file.
func ConfirmOverwrite(path string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Existing Configuration Found").
				Description(fmt.Sprintf("%s already exists.", path)),

			huh.NewConfirm().
				Title("Overwrite it?").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

func formatLanguages(languages []scanner.LanguageInfo) string {
	if len(languages) == 0 {
		return "Unknown"
	}
	var parts []string
	for _, lang := range languages {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", lang.Name, lang.Confidence))
	}
	return strings.Join(parts, ", ")
}

func parseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
