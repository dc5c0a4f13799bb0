// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"testing"

	"github.com/andywolf/codelens/internal/scanner"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "single pattern",
			input:    "*.min.js",
			expected: []string{"*.min.js"},
		},
		{
			name:     "multiple patterns",
			input:    "*.min.js, testdata, docs/*",
			expected: []string{"*.min.js", "testdata", "docs/*"},
		},
		{
			name:     "patterns with extra whitespace",
			input:    "  *.min.js  ,  testdata  ,  docs/*  ",
			expected: []string{"*.min.js", "testdata", "docs/*"},
		},
		{
			name:     "empty items between commas",
			input:    "*.pb.go,, testdata",
			expected: []string{"*.pb.go", "testdata"},
		},
		{
			name:     "trailing comma",
			input:    "*.pb.go, testdata,",
			expected: []string{"*.pb.go", "testdata"},
		},
		{
			name:     "leading comma",
			input:    ",*.pb.go, testdata",
			expected: []string{"*.pb.go", "testdata"},
		},
		{
			name:     "patterns with spaces",
			input:    "third party/*, my docs, build output",
			expected: []string{"third party/*", "my docs", "build output"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseList(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d items, got %d: %v", len(tt.expected), len(result), result)
				return
			}

			for i, expected := range tt.expected {
				if result[i] != expected {
					t.Errorf("item %d: expected %q, got %q", i, expected, result[i])
				}
			}
		})
	}
}

func TestFormatLanguages(t *testing.T) {
	tests := []struct {
		name      string
		languages []scanner.LanguageInfo
		expected  string
	}{
		{
			name:      "empty languages",
			languages: []scanner.LanguageInfo{},
			expected:  "Unknown",
		},
		{
			name:      "nil languages",
			languages: nil,
			expected:  "Unknown",
		},
		{
			name: "single language",
			languages: []scanner.LanguageInfo{
				{Name: "Go", Confidence: 100},
			},
			expected: "Go (100%)",
		},
		{
			name: "multiple languages",
			languages: []scanner.LanguageInfo{
				{Name: "Go", Confidence: 75},
				{Name: "JavaScript", Confidence: 20},
				{Name: "Shell", Confidence: 5},
			},
			expected: "Go (75%), JavaScript (20%), Shell (5%)",
		},
		{
			name: "fractional percentages",
			languages: []scanner.LanguageInfo{
				{Name: "Python", Confidence: 85.7},
				{Name: "JavaScript", Confidence: 14.3},
			},
			expected: "Python (86%), JavaScript (14%)",
		},
		{
			name: "zero percentage",
			languages: []scanner.LanguageInfo{
				{Name: "Go", Confidence: 99},
				{Name: "Other", Confidence: 0},
			},
			expected: "Go (99%), Other (0%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatLanguages(tt.languages)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}
