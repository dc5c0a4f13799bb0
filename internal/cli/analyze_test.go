package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andywolf/codelens/internal/config"
	"github.com/andywolf/codelens/internal/history"
	"github.com/andywolf/codelens/internal/logging"
	"github.com/andywolf/codelens/internal/scanner"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"go.mod":              "module example.com/svc\n\ngo 1.22\n\nrequire github.com/spf13/cobra v1.8.0\n",
		"main.go":             "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n",
		"internal/db/db.go":   "package db\n\n// Open opens the database.\nfunc Open() error {\n\treturn nil\n}\n",
		"Cargo.toml":          "[dependencies\n",
		"node_modules/x/x.js": "module.exports = 1;\n",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func TestRunAnalysis(t *testing.T) {
	root := writeProject(t)
	cfg := config.Default()
	cfg.Output.Format = "json"

	var logs, out bytes.Buffer
	logger := logging.New(logging.WithWriter(&logs))

	result, err := runAnalysis(context.Background(), root, cfg, logger, &out)
	require.NoError(t, err)

	assert.Equal(t, "go", result.PrimaryLanguage.Name)
	assert.Equal(t, 4, result.TotalFiles, "node_modules must not be collected")

	var decoded scanner.DetectionResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, result.QualityScore, decoded.QualityScore)
	require.Len(t, decoded.Dependencies, 1)
	assert.Equal(t, "github.com/spf13/cobra", decoded.Dependencies[0].Name)

	assert.Contains(t, logs.String(), "collected source files")
	assert.Contains(t, logs.String(), "skipped unparseable manifest")
	assert.Contains(t, logs.String(), "Cargo.toml")
}

func TestRunAnalysis_VerboseLogsScannerSettings(t *testing.T) {
	root := writeProject(t)
	cfg := config.Default()
	cfg.Weights.FrontendThreshold = 75

	var quiet, verbose bytes.Buffer
	_, err := runAnalysis(context.Background(), root, cfg, logging.New(logging.WithWriter(&quiet)), &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotContains(t, quiet.String(), "scanner configured")

	_, err = runAnalysis(context.Background(), root, cfg, logging.New(logging.WithWriter(&verbose), logging.WithVerbose(true)), &bytes.Buffer{})
	require.NoError(t, err)

	var entry logging.LogEntry
	for _, line := range strings.Split(strings.TrimSpace(verbose.String()), "\n") {
		if strings.Contains(line, "scanner configured") {
			require.NoError(t, json.Unmarshal([]byte(line), &entry))
		}
	}
	require.Equal(t, "scanner configured", entry.Message)
	assert.Equal(t, logging.SeverityDebug, entry.Severity)
	assert.Equal(t, float64(75), entry.Fields["frontend_threshold"])
}

func TestRunAnalysis_BadRoot(t *testing.T) {
	cfg := config.Default()
	_, err := runAnalysis(context.Background(), filepath.Join(t.TempDir(), "missing"), cfg, logging.Discard(), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to collect files"))
}

func TestRunAnalysis_Cancelled(t *testing.T) {
	root := writeProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runAnalysis(ctx, root, config.Default(), logging.Discard(), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordRun(t *testing.T) {
	root := writeProject(t)
	path := filepath.Join(t.TempDir(), "history.jsonl")
	logger := logging.New(logging.WithWriter(&bytes.Buffer{}), logging.WithRunID("run-42"))

	result := &scanner.DetectionResult{
		PrimaryLanguage: scanner.LanguageInfo{Name: "go"},
		QualityScore:    77,
		TotalFiles:      3,
	}
	require.NoError(t, recordRun(path, root, logger, result))

	records, err := history.NewStore(path).List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "run-42", records[0].RunID)
	assert.Equal(t, 77, records[0].QualityScore)
	assert.True(t, filepath.IsAbs(records[0].Root))
}
