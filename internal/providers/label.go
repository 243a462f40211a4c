package providers

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"leadpulse/internal/domain"
)

var titleCaser = cases.Title(language.English)

// Label renders an operator-facing display name for a provider slug, e.g.
// "search_console" becomes "Search Console".
func Label(p domain.Provider) string {
	switch p {
	case domain.ProviderGBP:
		return "Google Business Profile"
	case domain.ProviderCallRail:
		return "CallRail"
	}
	return titleCaser.String(strings.ReplaceAll(string(p), "_", " "))
}
