package calculation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wattjam/mpce/internal/domain"
)

const marriedFilingJoint = "marriedFilingJoint"

// CalculateContributions sizes a pre-tax contribution for one account
// type against total expected cost and any rollover already on hand
// (spec.md §4.7).
func CalculateContributions(acct domain.AccountType, totalCost, rollover decimal.Decimal) (suggested, employerMatch decimal.Decimal) {
	if totalCost.IsZero() {
		return decimal.Zero, decimal.Zero
	}

	remaining := decimal.Max(decimal.Zero, totalCost.Sub(rollover))
	limited := decimal.Min(acct.ContributionMaximum, remaining)

	matchDenominator := decimal.NewFromInt(1).Add(acct.EmployerMatchRate)
	combinedCapCandidate := limited.Div(matchDenominator)
	matchCapCandidate := limited.Sub(acct.EmployerMaxMatchAmount)

	suggested = decimal.Max(acct.ContributionMinimum, decimal.Max(combinedCapCandidate, matchCapCandidate))
	employerMatch = decimal.Min(acct.EmployerMaxMatchAmount, suggested.Mul(acct.EmployerMatchRate))
	return suggested.Round(2), employerMatch.Round(2)
}

// CalculateFederalIncomeTax walks the filing-status bracket schedule
// low-to-high after subtracting exemptions and the standard deduction
// (spec.md §4.7). Taxable income may go negative, in which case the
// result is a proportionally negative tax (a refund credit) — nothing is
// clamped at zero.
func CalculateFederalIncomeTax(income decimal.Decimal, schedule domain.FilingStatusSchedule, dependents int) decimal.Decimal {
	taxable := income.
		Sub(schedule.PersonalExemption).
		Sub(schedule.DependentExemption.Mul(decimal.NewFromInt(int64(dependents)))).
		Sub(schedule.StandardDeduction)

	var tax decimal.Decimal
	taxedSoFar := decimal.Zero
	floor := decimal.Zero
	for _, bracket := range schedule.Brackets {
		upper := bracket.Upper
		var inBracket decimal.Decimal
		if taxable.LessThanOrEqual(floor) {
			inBracket = decimal.Zero
		} else if taxable.GreaterThan(upper) {
			inBracket = upper.Sub(floor)
		} else {
			inBracket = taxable.Sub(floor)
		}
		tax = tax.Add(inBracket.Mul(bracket.Rate))
		taxedSoFar = taxedSoFar.Add(inBracket)
		floor = upper
	}

	if taxable.GreaterThan(floor) && len(schedule.Brackets) > 0 {
		lastRate := schedule.Brackets[len(schedule.Brackets)-1].Rate
		tax = tax.Add(taxable.Sub(floor).Mul(lastRate))
	} else if taxable.LessThan(decimal.Zero) && len(schedule.Brackets) > 0 {
		firstRate := schedule.Brackets[0].Rate
		tax = taxable.Mul(firstRate)
	}

	return tax.Round(2)
}

// CalculateFicaPayrollTaxes applies the social-security wage cap and the
// uncapped Medicare rate (spec.md §4.7).
func CalculateFicaPayrollTaxes(income decimal.Decimal, fica domain.FICAConfig) decimal.Decimal {
	ss := decimal.Min(income, fica.SocialSecurityLimit).Mul(fica.SocialSecurityRate)
	medicare := income.Mul(fica.MedicareRate)
	return ss.Add(medicare).Round(2)
}

// CalculateFSAE is FSAE's public operation (spec.md §4.7): it sizes the
// contribution, then compares federal income tax on household income and
// FICA on the primary's income alone, before and after the contribution is
// subtracted.
func CalculateFSAE(cfg *domain.Configuration, req domain.FSAERequest) (domain.FSAEResult, error) {
	start := time.Now()

	accountTypeID := req.AccountTypeID
	if accountTypeID == "" {
		if len(cfg.AccountTypesOrder) == 0 {
			return domain.FSAEResult{}, &CallError{Reason: "no account types configured"}
		}
		accountTypeID = cfg.AccountTypesOrder[0]
	}
	acct, ok := cfg.AccountTypes[accountTypeID]
	if !ok {
		return domain.FSAEResult{}, &CallError{Reason: "unknown account type " + accountTypeID}
	}

	filingStatusID := req.FilingStatusID
	if filingStatusID == "" {
		filingStatusID = "single"
	}
	schedule, ok := cfg.FilingStatuses[filingStatusID]
	if !ok {
		return domain.FSAEResult{}, &CallError{Reason: "unknown filing status " + filingStatusID}
	}

	totalCosts := decimal.Zero
	for _, c := range req.Costs {
		totalCosts = totalCosts.Add(c)
	}

	suggested, employerMatch := CalculateContributions(acct, totalCosts, req.RolloverAmount)

	householdIncome := req.PrimaryAnnualIncome
	if filingStatusID == marriedFilingJoint {
		householdIncome = householdIncome.Add(req.SpouseAnnualIncome)
	}

	taxBefore := CalculateFederalIncomeTax(householdIncome, schedule, req.NumberOfDependents)
	taxAfter := CalculateFederalIncomeTax(householdIncome.Sub(suggested), schedule, req.NumberOfDependents)
	federalSavings := taxBefore.Sub(taxAfter)

	ficaBefore := CalculateFicaPayrollTaxes(req.PrimaryAnnualIncome, cfg.FICA)
	ficaAfter := CalculateFicaPayrollTaxes(req.PrimaryAnnualIncome.Sub(suggested), cfg.FICA)
	ficaSavings := ficaBefore.Sub(ficaAfter)

	totalSavings := federalSavings.Add(ficaSavings)

	return domain.FSAEResult{
		AccountTypeID:                accountTypeID,
		AccountTypeDescription:       acct.Description.String(),
		TotalCosts:                   totalCosts.Round(2),
		SuggestedContribution:        suggested.Round(2),
		EmployerMatchingContribution: employerMatch.Round(2),
		FederalIncomeTaxSavings:      federalSavings.Round(2),
		FicaTaxSavings:               ficaSavings.Round(2),
		TotalTaxSavings:              totalSavings.Round(2),
		TotalMatchAndTaxSavings:      totalSavings.Add(employerMatch).Round(2),
		ElapsedMsec:                  float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}
