package services

import "strings"

// typeRule maps a title substring to a branch type. Rules are ordered and the
// first match wins, so a title mentioning both "atm" and "terminal" classifies
// by the earlier rule.
type typeRule struct {
	marker     string
	branchType string
}

var locationTypeRules = []typeRule{
	{marker: "atm", branchType: "ATM"},
	{marker: "terminal", branchType: "Payment Terminal"},
}

// ClassifyLocationTitle derives a branch type from a feed record title.
// Matching is case-insensitive; anything that is neither an ATM nor a payment
// terminal is a branch.
func ClassifyLocationTitle(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range locationTypeRules {
		if strings.Contains(lower, rule.marker) {
			return rule.branchType
		}
	}
	return "Branch"
}

// branchNameMarkers are the substrings that mark a name as an actual staffed
// branch during recategorization. "filial" is the Azerbaijani word for branch.
var branchNameMarkers = []string{"branch", "filial", "office"}

// IsActualBranchName reports whether a location name looks like a staffed
// branch rather than a generic service point.
func IsActualBranchName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range branchNameMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ShouldRecategorizeAsServicePoint reports whether a row carrying the legacy
// "Branches" type should move to "Service Points".
func ShouldRecategorizeAsServicePoint(name string) bool {
	return !IsActualBranchName(name)
}
