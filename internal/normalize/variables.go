// Package normalize maps raw XBRL facts onto the canonical accounting
// variables and builds the canonical table.
package normalize

// Canonical variable names, in table row order.
const (
	Revenue                         = "Revenue"
	CostOfSales                     = "CostOfSales"
	GrossProfit                     = "GrossProfit"
	OperatingExpense                = "OperatingExpense"
	ResearchExpense                 = "ResearchExpense"
	Depreciation                    = "Depreciation"
	Amortization                    = "Amortization"
	OperatingIncome                 = "OperatingIncome"
	OperatingIncomeAfterInterest    = "OperatingIncomeAfterInterest"
	InterestIncome                  = "InterestIncome"
	Interest                        = "Interest"
	Tax                             = "Tax"
	NetIncome                       = "NetIncome"
	TotalAsset                      = "TotalAsset"
	CurrentAssets                   = "CurrentAssets"
	Inventory                       = "Inventory"
	PPEnet                          = "PPEnet"
	MinorityInterest                = "MinorityInterest"
	EquityIncludingMinorityInterest = "EquityIncludingMinorityInterest"
	Equity                          = "Equity(BV)"
	ShortTermDebt                   = "ShortTermDebt(BV)"
	LongTermDebtWithLease           = "LongTermDebtWithLease(BV)"
	Debt                            = "Debt(BV)"
	CurrentLiabilities              = "CurrentLiabilities"
	TotalLiability                  = "TotalLiability"
	LongTermDebtWithoutLease        = "LongTermDebtWithoutLease(BV)"
	LongTermLease                   = "LongTermLease(BV)"
	LeaseDueThisYear                = "LeaseDueThisYear"
	LeaseDueYearOne                 = "LeaseDueYearOne"
	LeaseDueYearTwo                 = "LeaseDueYearTwo"
	LeaseDueYearThree               = "LeaseDueYearThree"
	LeaseDueYearFour                = "LeaseDueYearFour"
	LeaseDueYearFive                = "LeaseDueYearFive"
	LeaseDueAfterYearFive           = "LeaseDueAfterYearFive"
	Cash                            = "Cash"

	// liabilitiesAndEquity feeds TotalLiability and is not emitted.
	liabilitiesAndEquity = "LiabilitiesAndEquity"
)

// Derivation computes a variable from other variables of the same period.
// It reports false when its inputs are not available.
type Derivation func(p *Period) (float64, bool)

// Variable is one canonical accounting variable.
type Variable struct {
	Name string
	// Synonyms are XBRL concept local names in priority order.
	Synonyms []string
	// Derive runs when no synonym has a fact.
	Derive Derivation
	// Hidden variables feed derivations but are not table rows.
	Hidden bool
}

// Variables is the canonical variable table in row order.
var Variables = []Variable{
	{Name: Revenue, Synonyms: []string{"Revenues", "RevenueFromContractWithCustomerExcludingAssessedTax"}},
	{Name: CostOfSales, Synonyms: []string{"CostOfRevenue", "CostOfGoodsAndServicesSold"}},
	{Name: GrossProfit, Synonyms: []string{"GrossProfit"}},
	{Name: OperatingExpense, Synonyms: []string{"CostsAndExpenses"}},
	{Name: ResearchExpense, Synonyms: []string{"ResearchAndDevelopmentExpense"}},
	{Name: Depreciation, Synonyms: []string{
		"Depreciation",
		"DepreciationDepletionAndAmortization",
		"DepreciationAmortizationAndOther",
		"DepreciationAmortizationAndAccretionNet",
	}},
	{Name: Amortization, Synonyms: []string{"AmortizationOfIntangibleAssets"}},
	{Name: OperatingIncome, Synonyms: []string{"OperatingIncomeLoss"}},
	{Name: OperatingIncomeAfterInterest, Synonyms: []string{
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesMinorityInterestAndIncomeLossFromEquityMethodInvestments",
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
	}},
	{Name: InterestIncome, Synonyms: []string{"InvestmentIncomeInterest"}},
	{Name: Interest, Synonyms: []string{
		"InterestExpense",
		"InterestExpenseNonoperating",
		"InterestAndDebtExpense",
		"InterestIncomeExpenseNet",
	}},
	{Name: Tax, Synonyms: []string{"IncomeTaxExpenseBenefit"}},
	{Name: NetIncome, Synonyms: []string{
		"NetIncomeLoss",
		"ProfitLoss",
		"NetIncomeLossAvailableToCommonStockholdersBasic",
	}},
	{Name: TotalAsset, Synonyms: []string{"Assets"}},
	{Name: CurrentAssets, Synonyms: []string{"AssetsCurrent"}},
	{Name: Inventory, Synonyms: []string{"InventoryNet"}},
	{Name: PPEnet, Synonyms: []string{"PropertyPlantAndEquipmentNet"}},
	{Name: MinorityInterest, Synonyms: []string{"MinorityInterest"}},
	{Name: EquityIncludingMinorityInterest, Synonyms: []string{"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest"}},
	{Name: Equity, Synonyms: []string{"StockholdersEquity"}},
	{Name: ShortTermDebt, Synonyms: []string{"DebtCurrent"}},
	{
		Name: LongTermDebtWithLease,
		Synonyms: []string{
			"LongTermDebtAndCapitalLeaseObligations",
			"LongTermDebtAndCapitalLeaseObligationsIncludingCurrentMaturities",
			"DebtAndCapitalLeaseObligations",
		},
		Derive: sumOf(LongTermDebtWithoutLease, LongTermLease),
	},
	{Name: Debt, Derive: sumOf(LongTermDebtWithLease, ShortTermDebt)},
	{Name: CurrentLiabilities, Synonyms: []string{"LiabilitiesCurrent"}},
	{Name: TotalLiability, Derive: totalLiability},
	{Name: LongTermDebtWithoutLease, Synonyms: []string{"LongTermDebtNoncurrent", "LongTermDebt"}},
	{Name: LongTermLease, Synonyms: []string{"LongTermLeaseLiabilityNoncurrentNet"}},
	{Name: LeaseDueThisYear, Synonyms: []string{"CurrentLeaseLiabilityNet"}},
	{Name: LeaseDueYearOne, Synonyms: []string{"LesseeOperatingLeaseLiabilityPaymentsDueNextTwelveMonths"}},
	{Name: LeaseDueYearTwo, Synonyms: []string{"LesseeOperatingLeaseLiabilityPaymentsDueYearTwo"}},
	{Name: LeaseDueYearThree, Synonyms: []string{"LesseeOperatingLeaseLiabilityPaymentsDueYearThree"}},
	{Name: LeaseDueYearFour, Synonyms: []string{"LesseeOperatingLeaseLiabilityPaymentsDueYearFour"}},
	{Name: LeaseDueYearFive, Synonyms: []string{"LesseeOperatingLeaseLiabilityPaymentsDueYearFive"}},
	{Name: LeaseDueAfterYearFive, Synonyms: []string{"LesseeOperatingLeaseLiabilityPaymentsDueAfterYearFive"}},
	{Name: Cash, Synonyms: []string{
		"CashAndCashEquivalentsAtCarryingValue",
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents",
	}},
	{Name: liabilitiesAndEquity, Synonyms: []string{"LiabilitiesAndStockholdersEquity"}, Hidden: true},
}

// sumOf adds variables that are zero when unresolved. Debt(BV) in particular
// is always the sum, even when both parts are missing.
func sumOf(names ...string) Derivation {
	return func(p *Period) (float64, bool) {
		var total float64
		for _, n := range names {
			total += p.Value(n)
		}
		return total, true
	}
}

// totalLiability is total liabilities and equity less equity. A missing
// combined figure counts as zero like any other unresolved lookup.
func totalLiability(p *Period) (float64, bool) {
	return p.Value(liabilitiesAndEquity) - p.Value(Equity), true
}
