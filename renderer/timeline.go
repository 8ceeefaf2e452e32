package renderer

import (
	"fmt"
	"strings"

	"github.com/sstandnes/kodak"
)

// TimelineMarkdown renders the yearly equity curve.
func TimelineMarkdown(points []kodak.EquityPoint, diags []kodak.PriceDiagnostic) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Portfolio Timeline\n\n")
	if len(points) == 0 {
		fmt.Fprintln(&b, "The ledger is empty.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Year | Start Equity | Net Flow | End Equity | Profit | Return |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, p := range points {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			p.Year,
			p.StartEquity,
			p.NetFlow.SignedString(),
			p.EndEquity,
			p.Profit.SignedString(),
			p.Return.SignedString(),
		)
	}
	writeDiagnostics(&b, diags)
	return b.String()
}
