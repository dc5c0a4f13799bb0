package scanner

import (
	"errors"
	"reflect"
	"testing"
)

func TestGuessEncoding(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", "ascii"},
		{"plain", "hello", "ascii"},
		{"multibyte", "héllo", "utf-8"},
		{"bom", "\xef\xbb\xbfhello", "utf-8-bom"},
		{"utf16 little endian", "\xff\xfeh\x00", "utf-16le"},
		{"utf16 big endian", "\xfe\xff\x00h", "utf-16be"},
		{"invalid utf8", "caf\xe9", "latin-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guessEncoding(tt.content); got != tt.want {
				t.Errorf("guessEncoding(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		if got := splitLines(tt.content); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestNewSourceFile(t *testing.T) {
	f := NewSourceFile(FileInput{Filename: "src/Main.PY", Content: "print('x')\n"})

	if f.Extension != ".py" {
		t.Errorf("expected lower-cased extension .py, got %q", f.Extension)
	}
	if f.Size != 11 {
		t.Errorf("expected size 11, got %d", f.Size)
	}
	if f.Encoding != "ascii" {
		t.Errorf("expected ascii encoding, got %q", f.Encoding)
	}
	if f.BaseName() != "Main.PY" {
		t.Errorf("expected base name Main.PY, got %q", f.BaseName())
	}
}

func TestValidateInput(t *testing.T) {
	if err := ValidateInput(nil); err != nil {
		t.Errorf("nil input should be valid, got %v", err)
	}
	if err := ValidateInput([]FileInput{{Filename: "a"}, {Filename: "b"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateInput([]FileInput{{Filename: "a"}, {Filename: "a"}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for duplicates, got %v", err)
	}
}
