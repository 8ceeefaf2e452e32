package renderer

import (
	"fmt"
	"strings"

	"github.com/sstandnes/kodak"
)

// GainsMarkdown renders realized performance by year.
func GainsMarkdown(years []kodak.RealizedYear) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Realized Performance by Year\n\n")
	if len(years) == 0 {
		fmt.Fprintln(&b, "Nothing realized yet.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Year | Realized Gains | Dividends | Interest | Fees | Tax | Total |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, y := range years {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n",
			y.Year,
			y.RealizedGains.SignedString(),
			y.Dividends.SignedString(),
			y.Interest.SignedString(),
			y.Fees.SignedString(),
			y.Tax.SignedString(),
			y.Total.SignedString(),
		)
	}
	return b.String()
}
