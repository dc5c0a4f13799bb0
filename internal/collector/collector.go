// Package collector walks a directory tree and gathers the source files an
// analysis should see.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-enry/go-enry/v2"

	"github.com/andywolf/codelens/internal/scanner"
)

// Skip reasons reported in Stats.Skipped
const (
	SkipVendored  = "vendored"
	SkipGenerated = "generated"
	SkipBinary    = "binary"
	SkipTooLarge  = "too_large"
	SkipExcluded  = "excluded"
	SkipLimit     = "limit"
)

// skipDirs are never descended into regardless of options.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
	".next":        true,
	".codelens":    true,
}

// buildOutputDirs hold compiled artifacts and are skipped unless vendored
// content is requested.
var buildOutputDirs = map[string]bool{
	"dist":   true,
	"build":  true,
	"target": true,
	"vendor": true,
}

// Options controls which files are collected.
type Options struct {
	MaxFiles        int
	MaxFileSize     int64
	Exclude         []string
	IncludeVendored bool
}

// Stats summarizes a collection pass.
type Stats struct {
	Files   int            `json:"files"`
	Bytes   int64          `json:"bytes"`
	Skipped map[string]int `json:"skipped"`
}

// Collect walks root and returns every eligible file as a FileInput whose
// Filename is the slash-separated path relative to root. Results are sorted
// by filename.
func Collect(ctx context.Context, root string, opts Options) ([]scanner.FileInput, Stats, error) {
	stats := Stats{Skipped: make(map[string]int)}
	files := []scanner.FileInput{}

	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("%s is not a directory", root)
	}

	errLimit := errors.New("file limit reached")

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if !opts.IncludeVendored && (buildOutputDirs[d.Name()] || enry.IsVendor(rel+"/")) {
				stats.Skipped[SkipVendored]++
				return filepath.SkipDir
			}
			if excluded(rel, opts.Exclude) {
				stats.Skipped[SkipExcluded]++
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if excluded(rel, opts.Exclude) {
			stats.Skipped[SkipExcluded]++
			return nil
		}
		if !opts.IncludeVendored && enry.IsVendor(rel) {
			stats.Skipped[SkipVendored]++
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		if opts.MaxFileSize > 0 && fi.Size() > opts.MaxFileSize {
			stats.Skipped[SkipTooLarge]++
			return nil
		}

		if opts.MaxFiles > 0 && len(files) >= opts.MaxFiles {
			stats.Skipped[SkipLimit]++
			return errLimit
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		if enry.IsBinary(content) {
			stats.Skipped[SkipBinary]++
			return nil
		}
		if !opts.IncludeVendored && !scanner.IsManifest(d.Name()) && enry.IsGenerated(rel, content) {
			stats.Skipped[SkipGenerated]++
			return nil
		}

		files = append(files, scanner.FileInput{Filename: rel, Content: string(content)})
		stats.Files++
		stats.Bytes += int64(len(content))
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return nil, stats, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, stats, nil
}

// excluded reports whether rel matches any pattern, either as a whole path
// or by its base name.
func excluded(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
