package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims s and converts it to NFC, so that names typed with
// composed and decomposed accents are stored and searched the same way.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FoldName returns the Unicode case-folded NFC form of s. Two names that
// differ only in letter case fold to the same string.
func FoldName(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(s))
}
