// Package sanitize turns partition key values into folder and file names that
// survive Windows, macOS and SharePoint/OneDrive sync.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// Placeholder replaces names that are empty after cleaning
	Placeholder = "Unnamed"

	// MaxLength is the byte limit of a single path component
	MaxLength = 255

	reservedSuffix = "_"
	invalidChars   = `/\:*?"<>|#%`
)

// Device names Windows reserves regardless of case or extension
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Name returns a folder-safe version of s. Name(Name(s)) == Name(s).
func Name(s string) string {
	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
	s = trimEnds(s)

	if s == "" {
		return Placeholder
	}

	s = disambiguateReserved(s)
	s = trimEnds(truncate(s, MaxLength))
	if s == "" {
		return Placeholder
	}
	return s
}

// FileName joins stem and ext, shortening stem so the result fits MaxLength
func FileName(stem, ext string) string {
	limit := MaxLength - len(ext)
	if limit < 1 {
		limit = 1
	}
	return trimEnds(truncate(stem, limit)) + ext
}

// IsReserved reports whether name is a Windows device name, with or without extension
func IsReserved(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	return reservedNames[strings.ToUpper(strings.TrimSpace(base))]
}

// Collisions maps every key whose sanitized name is already taken by an earlier
// key to that earlier key. Names are compared case-insensitively, the way
// Windows and SharePoint compare them.
func Collisions(keys []string) map[string]string {
	fold := cases.Fold()
	claimed := make(map[string]string, len(keys))
	out := make(map[string]string)

	for _, key := range keys {
		folded := fold.String(Name(key))
		if first, ok := claimed[folded]; ok {
			out[key] = first
			continue
		}
		claimed[folded] = key
	}
	return out
}

func disambiguateReserved(s string) string {
	if !IsReserved(s) {
		return s
	}
	base, rest, hasExt := strings.Cut(s, ".")
	if hasExt {
		return base + reservedSuffix + "." + rest
	}
	return s + reservedSuffix
}

// trimEnds drops surrounding whitespace and trailing dots, which Windows strips silently
func trimEnds(s string) string {
	return strings.TrimRightFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
