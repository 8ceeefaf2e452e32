package renderer

import (
	"github.com/sstandnes/kodak"
)

// RenderSnapshot renders a portfolio snapshot to a markdown string.
func RenderSnapshot(s *kodak.Snapshot) string {
	partials := map[string]string{
		"holdings_title":      "templates/holdings_title.md",
		"holdings_securities": "templates/holdings_securities.md",
		"holdings_cash":       "templates/holdings_cash.md",
	}
	return renderTemplate("holdings", "templates/holdings.md", partials, s)
}
