// Package textnorm normalizes the trilingual (English/Russian/Kyrgyz) text
// that reference data is keyed on, so visually identical names compare equal.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Name converts s to NFC, trims it and collapses inner whitespace.
// Cyrillic names typed on different keyboards may arrive decomposed.
func Name(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// NamePtr applies Name to an optional value.
func NamePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Name(*s)
	return &v
}

// SearchTerm prepares a free-text term for a case-insensitive LIKE match.
func SearchTerm(s string) string {
	// A Caser holds state, so each call gets its own.
	return cases.Lower(language.Und).String(Name(s))
}

// LikeEscape is the escape character LikePattern uses; queries must declare ESCAPE '!'.
const LikeEscape = "!"

// LikePattern wraps a normalized term in % wildcards, escaping the LIKE metacharacters.
func LikePattern(term string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + r.Replace(SearchTerm(term)) + "%"
}
