// Package output renders MPCE and FSAE results as console text, CSV, or
// JSON.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wattjam/mpce/internal/compare"
	"github.com/wattjam/mpce/internal/domain"
)

// FormatCurrency renders a dollar amount fixed to cents.
func FormatCurrency(amt decimal.Decimal) string {
	return "$" + amt.StringFixed(2)
}

// WritePlanResultsConsole writes a human-readable table of plan results.
func WritePlanResultsConsole(results domain.EngineResult) string {
	var b strings.Builder
	fmt.Fprintln(&b, strings.Repeat("=", 72))
	fmt.Fprintln(&b, "PLAN COST ESTIMATE")
	fmt.Fprintln(&b, strings.Repeat("=", 72))
	for _, r := range results.Results {
		fmt.Fprintf(&b, "%-24s annual cost %s%s\n", r.PlanID, "$", r.TotalAnnualCost.StringFixed(2))
		fmt.Fprintf(&b, "  deductibles %s  copays %s  coinsurance %s  not covered %s\n",
			r.TotalDeductibles.StringFixed(2), r.TotalCopays.StringFixed(2),
			r.TotalCoinsurance.StringFixed(2), r.TotalExpensesNotCovered.StringFixed(2))
		fmt.Fprintf(&b, "  premium %s  fund offset %s  carryover %s\n",
			r.AnnualPremiumAfterAdjustment.StringFixed(2), r.TotalFundAmountOffset.StringFixed(2), r.FundCarryoverBalance.StringFixed(2))
	}
	fmt.Fprintf(&b, "(elapsed %.3fms)\n", results.ElapsedMsec)
	return b.String()
}

// WritePlanResultsCSV writes one row per plan result.
func WritePlanResultsCSV(results domain.EngineResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"planId", "totalDeductibles", "totalCopays", "totalCoinsurance",
		"totalExpensesNotCovered", "totalRawExpenses", "totalFundAmountOffset",
		"fundCarryoverBalance", "annualPremiumAfterAdjustment", "totalAnnualCost",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		row := []string{
			r.PlanID,
			r.TotalDeductibles.StringFixed(2),
			r.TotalCopays.StringFixed(2),
			r.TotalCoinsurance.StringFixed(2),
			r.TotalExpensesNotCovered.StringFixed(2),
			r.TotalRawExpenses.StringFixed(2),
			r.TotalFundAmountOffset.StringFixed(2),
			r.FundCarryoverBalance.StringFixed(2),
			r.AnnualPremiumAfterAdjustment.StringFixed(2),
			r.TotalAnnualCost.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WritePlanResultsJSON marshals the full engine result.
func WritePlanResultsJSON(results domain.EngineResult) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}

// WriteComparisonConsole writes a ranked comparison table.
func WriteComparisonConsole(set *compare.ComparisonSet) string {
	var b strings.Builder
	fmt.Fprintln(&b, strings.Repeat("=", 60))
	fmt.Fprintln(&b, "PLAN RANKING")
	fmt.Fprintln(&b, strings.Repeat("=", 60))
	for _, r := range set.Ranks {
		line := fmt.Sprintf("%d. %-20s %10s", r.Position, r.PlanID, "$"+r.TotalAnnualCost.StringFixed(2))
		if r.Position > 1 {
			line += fmt.Sprintf("  (+$%s vs cheapest)", r.DeltaFromCheapest.StringFixed(2))
		}
		if r.DeltaFromBase != nil && r.PlanID != set.BasePlanID {
			line += fmt.Sprintf("  (%+.2f vs %s)", r.DeltaFromBase.InexactFloat64(), set.BasePlanID)
		}
		fmt.Fprintln(&b, line)
	}
	return b.String()
}

// WriteFSAEResultConsole writes a human-readable FSAE summary.
func WriteFSAEResultConsole(r domain.FSAEResult) string {
	var b strings.Builder
	fmt.Fprintln(&b, strings.Repeat("=", 60))
	fmt.Fprintf(&b, "FSA/HSA ESTIMATE: %s\n", r.AccountTypeDescription)
	fmt.Fprintln(&b, strings.Repeat("=", 60))
	fmt.Fprintf(&b, "Total expected costs:        $%s\n", r.TotalCosts.StringFixed(2))
	fmt.Fprintf(&b, "Suggested contribution:      $%s\n", r.SuggestedContribution.StringFixed(2))
	fmt.Fprintf(&b, "Employer match:              $%s\n", r.EmployerMatchingContribution.StringFixed(2))
	fmt.Fprintf(&b, "Federal income tax savings:  $%s\n", r.FederalIncomeTaxSavings.StringFixed(2))
	fmt.Fprintf(&b, "FICA tax savings:            $%s\n", r.FicaTaxSavings.StringFixed(2))
	fmt.Fprintf(&b, "Total tax savings:           $%s\n", r.TotalTaxSavings.StringFixed(2))
	fmt.Fprintf(&b, "Total match + tax savings:   $%s\n", r.TotalMatchAndTaxSavings.StringFixed(2))
	return b.String()
}

// WriteFSAEResultJSON marshals one FSAE result.
func WriteFSAEResultJSON(r domain.FSAEResult) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
