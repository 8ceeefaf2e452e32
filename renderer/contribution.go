package renderer

import (
	"fmt"
	"strings"

	"github.com/sstandnes/kodak"
)

// ContributionMarkdown renders the yearly attribution report.
func ContributionMarkdown(year int, rows []kodak.ContributionRow, portfolioXirr kodak.Percent, diags []kodak.PriceDiagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Contribution Report %d\n\n", year)
	fmt.Fprintf(&b, "Portfolio return (money-weighted): %s\n\n", portfolioXirr.SignedString())

	if len(rows) == 0 {
		fmt.Fprintln(&b, "No activity in this year.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Position | SOY Value | EOY Value | Net Additions | Dividends | Profit | IRR | Contribution |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Label,
			r.SOYValue,
			r.EOYValue,
			r.NetAdditions.SignedString(),
			r.Dividends,
			r.Profit.SignedString(),
			r.IRR.SignedString(),
			r.Contribution.SignedString(),
		)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "The starred row collects profit not attributable to any position: FX drift on cash, rounding and float.")
	writeDiagnostics(&b, diags)
	return b.String()
}
