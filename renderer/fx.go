package renderer

import (
	"fmt"
	"strings"

	"github.com/sstandnes/kodak"
)

// FXMarkdown renders the currency profit decomposition.
func FXMarkdown(rows []kodak.FXRow, diags []kodak.PriceDiagnostic) string {
	var b strings.Builder
	fmt.Fprint(&b, "# FX Performance\n\n")
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No foreign currency exposure in the ledger.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Currency | Cash Held | Realized Cash | Unrealized Cash | Realized Securities | Unrealized Securities | Total Realized | Total Unrealized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Currency,
			r.CashHoldings,
			r.RealizedCashPL.SignedString(),
			r.UnrealizedCashPL.SignedString(),
			r.RealizedSecuritiesPL.SignedString(),
			r.UnrealizedSecuritiesPL.SignedString(),
			r.TotalRealizedPL.SignedString(),
			r.TotalUnrealizedPL.SignedString(),
		)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Securities FX P&L isolates the exchange-rate component of foreign trades; price movement stays with the instrument.")
	writeDiagnostics(&b, diags)
	return b.String()
}
