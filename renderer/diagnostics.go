package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/sstandnes/kodak"
)

// DiagnosticsMarkdown renders the fallback disclosures as a standalone
// section, for reports that are otherwise template-rendered.
func DiagnosticsMarkdown(diags []kodak.PriceDiagnostic) string {
	var b strings.Builder
	writeDiagnostics(&b, diags)
	return b.String()
}

// writeDiagnostics appends the degraded-price disclosure section when any
// valuation in the report fell back past the live tier.
func writeDiagnostics(w io.Writer, diags []kodak.PriceDiagnostic) {
	ConditionalBlock(w, func(bw io.Writer) bool {
		if len(diags) == 0 {
			return false
		}
		fmt.Fprint(bw, "\n## Price Fallbacks\n\n")
		fmt.Fprintln(bw, "Figures below used a fallback price source and carry reduced confidence.")
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "| Symbol | Date | Source | Price |")
		fmt.Fprintln(bw, "|:---|:---|:---|---:|")
		for _, d := range diags {
			fmt.Fprintf(bw, "| %s | %s | %s | %.4f |\n", d.Symbol, d.On, d.Tier, d.Price)
		}
		return true
	})
}
