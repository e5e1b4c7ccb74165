package textutil

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"punctuation stripped", "Hello, world!", "hello world"},
		{"whitespace collapsed", "take  the \t dog\n out", "take the dog out"},
		{"surrounding space trimmed", "  close the door  ", "close the door"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"punctuation only", "?!...", ""},
		{"digits kept", "scene 42, take 3", "scene 42 take 3"},
		{"diacritics folded", "Café au lait", "cafe au lait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello, world!",
		"  MIXED case   and\tpunctuation?! ",
		"already normalized text",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Take the dog out", []string{"take", "the", "dog", "out"}},
		{"empty", "   ", nil},
		{"punctuation", "Close... the door!", []string{"close", "the", "door"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Words(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Words(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "take_001.mp4", "take_001.mp4"},
		{"slashes", "a/b\\c", "a-b-c"},
		{"removed characters", "what?<>|\"", "what"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
