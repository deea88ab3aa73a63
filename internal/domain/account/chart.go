package account

// Well-known account codes referenced by the auto-journal mapping policy
// and the year-end closing procedure.
const (
	CodeCashOnHand         = "1000"
	CodeCheckingAccount    = "1100"
	CodeAccountsReceivable = "1200"
	CodeAccountsPayable    = "2000"
	CodeCreditCardPayable  = "2100"
	CodeSalesTaxPayable    = "2200"
	CodeOwnerEquity        = "3000"
	CodeOwnerContributions = "3100"
	CodeOwnerDraw          = "3200"
	CodeIncomeSummary      = "3900"
	CodeServiceRevenue     = "4000"
	CodeProductSales       = "4100"
	CodeInterestIncome     = "4200"
	CodeAdvertising        = "5100"
	CodeOfficeExpense      = "5200"
	CodeProcessingFees     = "5300"
	CodeInsurance          = "5400"
	CodeTravel             = "5500"
	CodeTaxesAndLicenses   = "5600"
)

// ChartEntry defines one seed row of the fixed chart of accounts
type ChartEntry struct {
	Code       string
	Name       string
	Type       Type
	NormalSide NormalSide
}

// Chart is the fixed 18-row chart of accounts seeded at provisioning time.
// The Income Summary account (3900) is intentionally absent: it is created
// lazily the first time year-end closing runs.
var Chart = []ChartEntry{
	{Code: CodeCashOnHand, Name: "Cash on Hand", Type: TypeAsset, NormalSide: SideDebit},
	{Code: CodeCheckingAccount, Name: "Checking Account", Type: TypeAsset, NormalSide: SideDebit},
	{Code: CodeAccountsReceivable, Name: "Accounts Receivable", Type: TypeAsset, NormalSide: SideDebit},
	{Code: CodeAccountsPayable, Name: "Accounts Payable", Type: TypeLiability, NormalSide: SideCredit},
	{Code: CodeCreditCardPayable, Name: "Credit Card Payable", Type: TypeLiability, NormalSide: SideCredit},
	{Code: CodeSalesTaxPayable, Name: "Sales Tax Payable", Type: TypeLiability, NormalSide: SideCredit},
	{Code: CodeOwnerEquity, Name: "Owner Equity", Type: TypeEquity, NormalSide: SideCredit},
	{Code: CodeOwnerContributions, Name: "Owner Contributions", Type: TypeEquity, NormalSide: SideCredit},
	{Code: CodeOwnerDraw, Name: "Owner Draw", Type: TypeEquity, NormalSide: SideDebit},
	{Code: CodeServiceRevenue, Name: "Service Revenue", Type: TypeIncome, NormalSide: SideCredit},
	{Code: CodeProductSales, Name: "Product Sales", Type: TypeIncome, NormalSide: SideCredit},
	{Code: CodeInterestIncome, Name: "Interest Income", Type: TypeIncome, NormalSide: SideCredit},
	{Code: CodeAdvertising, Name: "Advertising", Type: TypeExpense, NormalSide: SideDebit},
	{Code: CodeOfficeExpense, Name: "Office Expense", Type: TypeExpense, NormalSide: SideDebit},
	{Code: CodeProcessingFees, Name: "Payment Processing Fees", Type: TypeExpense, NormalSide: SideDebit},
	{Code: CodeInsurance, Name: "Insurance", Type: TypeExpense, NormalSide: SideDebit},
	{Code: CodeTravel, Name: "Travel", Type: TypeExpense, NormalSide: SideDebit},
	{Code: CodeTaxesAndLicenses, Name: "Taxes and Licenses", Type: TypeExpense, NormalSide: SideDebit},
}
