package domain

import (
	"github.com/shopspring/decimal"
)

// PlanResult is one plan's full cost breakdown for a single MPCE call
// (spec.md §3, §4.5), all dollar fields rounded to cents.
type PlanResult struct {
	PlanID string `json:"planId"`

	TotalDeductibles       decimal.Decimal `json:"totalDeductibles"`
	TotalCopays            decimal.Decimal `json:"totalCopays"`
	TotalCoinsurance       decimal.Decimal `json:"totalCoinsurance"`
	TotalExpensesNotCovered decimal.Decimal `json:"totalExpensesNotCovered"`
	TotalRawExpenses       decimal.Decimal `json:"totalRawExpenses"`

	TotalFundEligibleCosts decimal.Decimal `json:"totalFundEligibleCosts"`
	TotalFundAmountOffset  decimal.Decimal `json:"totalFundAmountOffset"`
	PlanFundPaid           decimal.Decimal `json:"planFundPaid"`
	PlanFundAdditionalMatchPaid decimal.Decimal `json:"planFundAdditionalMatchPaid"`
	RolloverFundPaid       decimal.Decimal `json:"rolloverFundPaid"`
	VoluntaryFundPaid      decimal.Decimal `json:"voluntaryFundPaid"`
	FundCarryoverBalance   decimal.Decimal `json:"fundCarryoverBalance"`

	MedicalAndDrugExpensesExcludingDeductibles decimal.Decimal `json:"medicalAndDrugExpensesExcludingDeductibles"`
	MedicalAndDrugExpensesIncludingDeductibles decimal.Decimal `json:"medicalAndDrugExpensesIncludingDeductibles"`
	MedicalAndDrugExpensesLessFundOffset        decimal.Decimal `json:"medicalAndDrugExpensesLessFundOffset"`

	EmployerOrPlanPaidExcludingFund decimal.Decimal `json:"employerOrPlanPaidExcludingFund"`

	AnnualPremium           decimal.Decimal `json:"annualPremium"`
	AnnualPremiumAfterAdjustment decimal.Decimal `json:"annualPremiumAfterAdjustment"`

	CarePlusPremium decimal.Decimal `json:"carePlusPremium"`

	TotalAnnualPayrollContributions decimal.Decimal `json:"totalAnnualPayrollContributions"`

	TotalAnnualCost decimal.Decimal `json:"totalAnnualCost"`
}

// round2 rounds every dollar field to cents. The evaluator rounds at every
// intermediate accumulation already (spec.md §4.4); this is a final
// boundary pass so a caller can trust the returned struct without
// re-deriving anything.
func (r *PlanResult) round2() {
	r.TotalDeductibles = r.TotalDeductibles.Round(2)
	r.TotalCopays = r.TotalCopays.Round(2)
	r.TotalCoinsurance = r.TotalCoinsurance.Round(2)
	r.TotalExpensesNotCovered = r.TotalExpensesNotCovered.Round(2)
	r.TotalRawExpenses = r.TotalRawExpenses.Round(2)
	r.TotalFundEligibleCosts = r.TotalFundEligibleCosts.Round(2)
	r.TotalFundAmountOffset = r.TotalFundAmountOffset.Round(2)
	r.PlanFundPaid = r.PlanFundPaid.Round(2)
	r.PlanFundAdditionalMatchPaid = r.PlanFundAdditionalMatchPaid.Round(2)
	r.RolloverFundPaid = r.RolloverFundPaid.Round(2)
	r.VoluntaryFundPaid = r.VoluntaryFundPaid.Round(2)
	r.FundCarryoverBalance = r.FundCarryoverBalance.Round(2)
	r.MedicalAndDrugExpensesExcludingDeductibles = r.MedicalAndDrugExpensesExcludingDeductibles.Round(2)
	r.MedicalAndDrugExpensesIncludingDeductibles = r.MedicalAndDrugExpensesIncludingDeductibles.Round(2)
	r.MedicalAndDrugExpensesLessFundOffset = r.MedicalAndDrugExpensesLessFundOffset.Round(2)
	r.EmployerOrPlanPaidExcludingFund = r.EmployerOrPlanPaidExcludingFund.Round(2)
	r.AnnualPremium = r.AnnualPremium.Round(2)
	r.AnnualPremiumAfterAdjustment = r.AnnualPremiumAfterAdjustment.Round(2)
	r.CarePlusPremium = r.CarePlusPremium.Round(2)
	r.TotalAnnualPayrollContributions = r.TotalAnnualPayrollContributions.Round(2)
	r.TotalAnnualCost = r.TotalAnnualCost.Round(2)
}

// Finalize derives the cross-field totals of spec.md §4.5/§8 from the
// accumulators the Plan Evaluator (C5) has already filled in, then rounds
// every field to cents.
func (r *PlanResult) Finalize() {
	r.MedicalAndDrugExpensesExcludingDeductibles = r.TotalCopays.Add(r.TotalCoinsurance)
	r.MedicalAndDrugExpensesIncludingDeductibles = r.MedicalAndDrugExpensesExcludingDeductibles.Add(r.TotalDeductibles)
	r.MedicalAndDrugExpensesLessFundOffset = r.MedicalAndDrugExpensesIncludingDeductibles.Sub(r.TotalFundAmountOffset)
	r.EmployerOrPlanPaidExcludingFund = r.TotalRawExpenses.Sub(
		r.TotalDeductibles.Add(r.TotalCopays).Add(r.TotalCoinsurance).Add(r.TotalExpensesNotCovered),
	)
	r.AnnualPremiumAfterAdjustment = decimal.Max(decimal.Zero, r.AnnualPremiumAfterAdjustment)
	r.CarePlusPremium = r.MedicalAndDrugExpensesLessFundOffset.Add(r.AnnualPremiumAfterAdjustment)
	r.TotalAnnualCost = r.CarePlusPremium
	r.round2()
}

// EngineResult is MPCE's full response: the ordered per-plan results plus
// a measured elapsed-time annotation (spec.md §4.6, §6).
type EngineResult struct {
	Results     []PlanResult `json:"results"`
	ElapsedMsec float64      `json:"elapsedMsec"`
}
