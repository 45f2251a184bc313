// Package normalize holds the canonicalization rules for the natural keys the
// workshop matches on: catalog names (brand/model/service type), vehicle
// plates, and phone/NIT numbers. Every lookup and every insert goes through
// these functions so "  toyota " and "TOYOTA" land on the same row.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Spanish)

// Name canonicalizes a catalog name for matching: trimmed, inner whitespace
// collapsed to single spaces, lower-cased with Unicode case folding.
func Name(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// DisplayName trims and collapses whitespace but preserves a presentable
// casing: fully lower- or upper-cased input is title-cased (Spanish rules),
// mixed-case input is kept as typed ("BMW" stays "BMW" only when the operator
// typed it that way among mixed words, otherwise we can't tell and title-case).
func DisplayName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if s == strings.ToLower(s) || s == strings.ToUpper(s) {
		return titleCaser.String(s)
	}
	return s
}

// Plate canonicalizes a license plate: trimmed, upper-cased, inner spaces
// removed. Plates are stored and compared in this form.
func Plate(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Phone trims a phone/NIT value. Separators are kept: the legacy data already
// contains dashed numbers and the lookup is an exact match against what was
// stored, so stripping separators here would orphan existing rows.
func Phone(s string) string {
	return strings.TrimSpace(s)
}

// EqualNames reports whether two catalog names match under Name semantics.
func EqualNames(a, b string) bool {
	return Name(a) == Name(b)
}
