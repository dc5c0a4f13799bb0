package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/codelens/internal/cli/wizard"
	"github.com/andywolf/codelens/internal/collector"
	"github.com/andywolf/codelens/internal/config"
	"github.com/andywolf/codelens/internal/scanner"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize project configuration",
	Long: `Initialize codelens configuration for the current project.

This creates a .codelens.yaml file with sensible defaults, including the
full set of scoring weights, that you can customize.

Example:
  codelens init
  codelens init --format json --exclude "*.min.js,testdata"
  codelens init --interactive`,
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("format", config.DefaultFormat, "Default report format (json, yaml, text)")
	initCmd.Flags().StringSlice("exclude", nil, "Exclude patterns")
	initCmd.Flags().Bool("interactive", false, "Prompt for each setting")
	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

func initProject(cmd *cobra.Command, args []string) error {
	configPath := filepath.Join(".", ConfigName+".yaml")

	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if _, err := os.Stat(configPath); err == nil && !force {
		if !interactive {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
		}
		ok, err := wizard.ConfirmOverwrite(configPath)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("aborted")
		}
	}

	cfg := config.Default()
	cfg.Output.Format, _ = cmd.Flags().GetString("format")
	cfg.Analysis.Exclude, _ = cmd.Flags().GetStringSlice("exclude")

	if interactive {
		if err := wizard.PromptConfig(cfg, detectLanguages(cmd)); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := writeConfig(configPath, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Adjust exclude patterns for generated or third-party code")
	fmt.Fprintln(out, "  2. Tune the weights section if the defaults misclassify your tree")
	fmt.Fprintln(out, "  3. Run 'codelens analyze' to produce a report")

	return nil
}

func writeConfig(path string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# codelens configuration
# Values here can be overridden by CODELENS_* environment variables
# (e.g. CODELENS_OUTPUT_FORMAT=json) and by command-line flags.

`

	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// detectLanguages runs a quick scan of the working directory so the wizard
// can show what it found. Failures yield an empty list.
func detectLanguages(cmd *cobra.Command) []scanner.LanguageInfo {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}

	files, _, err := collector.Collect(ctx, ".", collector.Options{
		MaxFiles:    config.DefaultMaxFiles,
		MaxFileSize: config.DefaultMaxFileSize,
	})
	if err != nil {
		return nil
	}

	result, err := scanner.Analyze(ctx, files)
	if err != nil {
		return nil
	}
	return result.AllLanguages
}
