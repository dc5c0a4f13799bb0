// Package history records completed analyses in an append-only JSONL file.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/andywolf/codelens/internal/scanner"
)

// Record is one completed analysis run.
type Record struct {
	RunID           string            `json:"run_id"`
	Timestamp       time.Time         `json:"timestamp"`
	Root            string            `json:"root"`
	PrimaryLanguage string            `json:"primary_language"`
	Structure       scanner.Archetype `json:"structure"`
	QualityScore    int               `json:"quality_score"`
	RiskLevel       scanner.RiskLevel `json:"risk_level"`
	TotalFiles      int               `json:"total_files"`
	AnalysisTimeMs  int64             `json:"analysis_time_ms"`
}

// NewRecord summarizes a detection result for the history log.
func NewRecord(runID, root string, at time.Time, r *scanner.DetectionResult) Record {
	return Record{
		RunID:           runID,
		Timestamp:       at.UTC(),
		Root:            root,
		PrimaryLanguage: r.PrimaryLanguage.Name,
		Structure:       r.ProjectStructure.Type,
		QualityScore:    r.QualityScore,
		RiskLevel:       r.SecurityProfile.RiskLevel,
		TotalFiles:      r.TotalFiles,
		AnalysisTimeMs:  r.AnalysisTime,
	}
}

// Store appends records to a JSONL file.
// It is safe for concurrent use from multiple goroutines.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store backed by the file at path. Parent directories
// are created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the path to the history file.
func (s *Store) Path() string {
	return s.path
}

// Append writes a record as a single JSON line.
func (s *Store) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}

	w := bufio.NewWriter(file)
	if _, err := w.Write(append(data, '\n')); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush record: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first. A limit of 0 or less
// returns every record. A missing file yields an empty list.
func (s *Store) List(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords(s.path)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func readRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	records := []Record{}
	sc := bufio.NewScanner(file)
	lineNum := 0

	for sc.Scan() {
		lineNum++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse record on line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	return records, nil
}
