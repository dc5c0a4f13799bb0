package scanner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput is returned when the file list itself is malformed.
var ErrInvalidInput = errors.New("invalid input")

// ValidateInput checks the shape of a file list before any analysis runs.
// Every entry needs a filename and filenames must be unique.
func ValidateInput(files []FileInput) error {
	seen := make(map[string]int, len(files))
	for i, f := range files {
		if strings.TrimSpace(f.Filename) == "" {
			return fmt.Errorf("%w: file %d has an empty filename", ErrInvalidInput, i)
		}
		if j, ok := seen[f.Filename]; ok {
			return fmt.Errorf("%w: duplicate filename %q at positions %d and %d", ErrInvalidInput, f.Filename, j, i)
		}
		seen[f.Filename] = i
	}
	return nil
}

// NewSourceFile normalizes a raw input pair.
func NewSourceFile(in FileInput) SourceFile {
	name := filepath.ToSlash(in.Filename)
	return SourceFile{
		Filename:  name,
		Extension: strings.ToLower(filepath.Ext(name)),
		Content:   in.Content,
		Size:      len(in.Content),
		Encoding:  guessEncoding(in.Content),
	}
}

// BaseName returns the final path element of the file.
func (f SourceFile) BaseName() string {
	return filepath.Base(f.Filename)
}

func guessEncoding(content string) string {
	switch {
	case strings.HasPrefix(content, "\xef\xbb\xbf"):
		return "utf-8-bom"
	case strings.HasPrefix(content, "\xff\xfe"):
		return "utf-16le"
	case strings.HasPrefix(content, "\xfe\xff"):
		return "utf-16be"
	case !utf8.ValidString(content):
		return "latin-1"
	}
	for i := 0; i < len(content); i++ {
		if content[i] >= utf8.RuneSelf {
			return "utf-8"
		}
	}
	return "ascii"
}

// splitLines splits content on newlines, tolerating CRLF.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
