package domain

import (
	"regexp"
	"strings"
)

// Outward-code shaped token: one or two letters, one or two digits, optional
// trailing letter, as a whole word.
var postcodeAreaRe = regexp.MustCompile(`\b([A-Z]{1,2}\d{1,2}[A-Z]?)\b`)

// ExtractPostcodeArea returns the first postcode-area token in a location
// string, e.g. "Petts Wood Road, Petts Wood, Orpington BR5" -> "BR5".
// It returns "" when the location carries no such token.
func ExtractPostcodeArea(location string) string {
	m := postcodeAreaRe.FindStringSubmatch(location)
	if m == nil {
		return ""
	}
	return m[1]
}

// PostcodeAreaMatches reports whether the criterion names the area or a
// leading part of it: "BR" and "BR5" match "BR5", "5" and "BR55" do not.
// An area of "" never matches a non-empty criterion.
func PostcodeAreaMatches(area, criterion string) bool {
	if criterion == "" {
		return true
	}
	return area != "" && strings.HasPrefix(area, criterion)
}
