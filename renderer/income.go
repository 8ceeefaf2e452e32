package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/sstandnes/kodak"
)

// IncomeMarkdown renders the income and cost report: the all-time summary,
// dividend payers, interest and fee breakdowns.
func IncomeMarkdown(
	summary kodak.IncomeSummary,
	dividendYears []kodak.YearlyAmount, topPayers []kodak.LabelAmount,
	interestYears []kodak.YearlyAmount,
	feeYears []kodak.YearlyAmount,
) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Income & Costs\n\n")
	fmt.Fprintln(&b, "| | Total |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Dividends | %s |\n", summary.Dividends)
	fmt.Fprintf(&b, "| Interest | %s |\n", summary.Interest)
	fmt.Fprintf(&b, "| Fees | %s |\n", summary.Fees)

	writeYearlySection(&b, "Dividends per Year", dividendYears)

	ConditionalBlock(&b, func(w io.Writer) bool {
		if len(topPayers) == 0 {
			return false
		}
		fmt.Fprint(w, "\n## Top Dividend Payers\n\n")
		fmt.Fprintln(w, "| Security | Total |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, p := range topPayers {
			fmt.Fprintf(w, "| %s | %s |\n", p.Label, p.Total)
		}
		return true
	})

	writeYearlySection(&b, "Interest per Year", interestYears)
	writeYearlySection(&b, "Fees per Year", feeYears)
	return b.String()
}

func writeYearlySection(w io.Writer, title string, years []kodak.YearlyAmount) {
	ConditionalBlock(w, func(bw io.Writer) bool {
		if len(years) == 0 {
			return false
		}
		fmt.Fprintf(bw, "\n## %s\n\n", title)
		fmt.Fprintln(bw, "| Year | Total |")
		fmt.Fprintln(bw, "|:---|---:|")
		for _, y := range years {
			fmt.Fprintf(bw, "| %d | %s |\n", y.Year, y.Total)
		}
		return true
	})
}

// FeeAnalysisMarkdown renders the per-account fee drag comparison.
func FeeAnalysisMarkdown(trading []kodak.AccountFees, platform []kodak.AccountCharges) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Fee Analysis\n\n")

	ConditionalBlock(&b, func(w io.Writer) bool {
		if len(trading) == 0 {
			return false
		}
		fmt.Fprint(w, "## Trading Fees by Account\n\n")
		fmt.Fprintln(w, "| Account | Traded | Fees | Fee per 100 | Trades |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		for _, a := range trading {
			fmt.Fprintf(w, "| %s | %s | %s | %.4f | %d |\n",
				a.Account, a.TotalTraded, a.TotalFees, a.FeePer100, a.Trades)
		}
		return true
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		if len(platform) == 0 {
			return false
		}
		fmt.Fprint(w, "\n## Platform Fees by Account\n\n")
		fmt.Fprintln(w, "| Account | Total | Monthly Avg | Charges |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		for _, a := range platform {
			fmt.Fprintf(w, "| %s | %s | %s | %d |\n",
				a.Account, a.TotalFees, a.MonthlyAvg, a.Charges)
		}
		return true
	})
	return b.String()
}
