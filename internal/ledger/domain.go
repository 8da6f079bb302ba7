package ledger

// AccountType selects the company or customer ledger.
type AccountType string

const (
	AccountCompany  AccountType = "company"
	AccountCustomer AccountType = "customer"
)

// Entry is one debit or credit line attributed to an account. Entries are
// append-only; the displayed balance is computed at read time.
type Entry struct {
	ID            string      `json:"id" db:"id"`
	AccountType   AccountType `json:"account_type" db:"account_type"`
	AccountKey    string      `json:"account_key" db:"account_key"`
	InvoiceNumber string      `json:"invoice_number" db:"invoice_number"`
	Date          string      `json:"date" db:"date"`
	Narration     string      `json:"narration" db:"narration"`
	Debit         float64     `json:"debit" db:"debit"`
	Credit        float64     `json:"credit" db:"credit"`
}

// Row is a statement line. Balance is the account's current total cost
// repeated on every row, a fixed reference column rather than an
// incrementally updated running balance. The upstream product displays it
// that way on purpose; see DESIGN.md before changing it.
type Row struct {
	Entry
	Balance float64 `json:"balance"`
}
