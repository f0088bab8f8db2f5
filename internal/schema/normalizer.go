// Package schema canonicalizes spreadsheet headers and resolves logical
// column names against them.
package schema

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes raw header names.
type Normalizer struct {
	// FoldAccents maps accented letters to their base letter before
	// non-alphanumerics are stripped, so "Unità" becomes "unita" not "unit".
	FoldAccents bool
}

// NormalizeHeader trims, lowercases, turns spaces into underscores and drops
// every character outside [0-9a-z_].
func NormalizeHeader(h string) string {
	return Normalizer{}.Normalize(h)
}

// NormalizeHeaders normalizes each header; the output has the same length.
func NormalizeHeaders(headers []string) []string {
	return Normalizer{}.NormalizeAll(headers)
}

// Normalize canonicalizes a single header.
func (n Normalizer) Normalize(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if n.FoldAccents {
		h = foldAccents(h)
	}
	h = strings.ReplaceAll(h, " ", "_")

	var b strings.Builder
	b.Grow(len(h))
	for _, r := range h {
		if r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeAll normalizes each header.
func (n Normalizer) NormalizeAll(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = n.Normalize(h)
	}
	return out
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// UniqueHeaders makes normalized headers usable as row keys: blank headers
// become column_<n> (1-based position) and repeats get a _<k> suffix.
func UniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[h]; dup {
			n++
			seen[h] = n
			candidate := fmt.Sprintf("%s_%d", h, n)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				n++
				candidate = fmt.Sprintf("%s_%d", h, n)
			}
			seen[h] = n
			h = candidate
		}
		seen[h] = 1
		out[i] = h
	}
	return out
}
