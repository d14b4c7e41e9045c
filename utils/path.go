package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PathSeparator separates property names in a dotted path.
const PathSeparator = "."

// TrimThenBy returns the part of s before the first sep, trimmed of
// surrounding sep runs. When sep does not occur, the trimmed s is returned.
func TrimThenBy(s, sep string) string {
	s = trimSep(s, sep)
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// TrimLeftBy returns the part of s after the first sep, trimmed of
// surrounding sep runs. It returns "" when sep does not occur.
func TrimLeftBy(s, sep string) string {
	s = trimSep(s, sep)
	if i := strings.Index(s, sep); i >= 0 {
		return trimSep(s[i+len(sep):], sep)
	}
	return ""
}

// SplitHead splits a dotted path into its first segment and the rest,
// following the same rules as Segments.
//
//	SplitHead("a.b.c") // "a", "b.c"
//	SplitHead("a")     // "a", ""
//	SplitHead(".a..b") // "a", "b"
//	SplitHead("a. b ") // "a", "b"
func SplitHead(path string) (head, rest string) {
	segments := Segments(path)
	if len(segments) == 0 {
		return "", ""
	}
	return segments[0], strings.Join(segments[1:], PathSeparator)
}

// Segments splits a dotted path, dropping empty segments.
// Names containing the separator cannot be expressed.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, PathSeparator)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func trimSep(s, sep string) string {
	if sep == "" {
		return s
	}
	for strings.HasPrefix(s, sep) {
		s = s[len(sep):]
	}
	for strings.HasSuffix(s, sep) {
		s = s[:len(s)-len(sep)]
	}
	for strings.Contains(s, sep+sep) {
		s = strings.ReplaceAll(s, sep+sep, sep)
	}
	return s
}
