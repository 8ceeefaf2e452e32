package renderer

import (
	"fmt"
	"strings"

	"github.com/sstandnes/kodak"
)

// XirrMarkdown renders the all-time money-weighted return, portfolio-wide or
// for one instrument.
func XirrMarkdown(label string, rate kodak.Percent, diags []kodak.PriceDiagnostic) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Money-Weighted Return\n\n")
	fmt.Fprintf(&b, "%s: **%s** annualized, all time.\n", label, rate.SignedString())
	writeDiagnostics(&b, diags)
	return b.String()
}
