package trade

// Purchase records tyre stock bought from a company.
type Purchase struct {
	ID        string  `json:"id" db:"id"`
	Company   string  `json:"company" db:"company"`
	Brand     string  `json:"brand" db:"brand"`
	Model     string  `json:"model" db:"model"`
	Size      string  `json:"size" db:"size"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Date      string  `json:"date" db:"date"`
	ShopStock int     `json:"shop_stock" db:"shop_stock"`
}

// Sale records tyres sold to a customer. Due is the per-sale outstanding
// figure; it is maintained independently of the account-level due.
type Sale struct {
	ID              string  `json:"id" db:"id"`
	Customer        string  `json:"customer" db:"customer"`
	Company         string  `json:"company" db:"company"`
	Brand           string  `json:"brand" db:"brand"`
	Model           string  `json:"model" db:"model"`
	Size            string  `json:"size" db:"size"`
	UnitPrice       float64 `json:"unit_price" db:"unit_price"`
	Quantity        int     `json:"quantity" db:"quantity"`
	DiscountPercent float64 `json:"discount_percent" db:"discount_percent"`
	Due             float64 `json:"due" db:"due"`
	Date            string  `json:"date" db:"date"`
	InvoiceNumber   string  `json:"invoice_number" db:"invoice_number"`
}

// Return records tyres a customer brought back against an earlier sale.
type Return struct {
	ID                string  `json:"id" db:"id"`
	Customer          string  `json:"customer" db:"customer"`
	Company           string  `json:"company" db:"company"`
	Brand             string  `json:"brand" db:"brand"`
	Model             string  `json:"model" db:"model"`
	Size              string  `json:"size" db:"size"`
	OriginalUnitPrice float64 `json:"original_unit_price" db:"original_unit_price"`
	OriginalQuantity  int     `json:"original_quantity" db:"original_quantity"`
	ReturnUnitPrice   float64 `json:"return_unit_price" db:"return_unit_price"`
	ReturnQuantity    int     `json:"return_quantity" db:"return_quantity"`
	Date              string  `json:"date" db:"date"`
	Comment           string  `json:"comment" db:"comment"`
}

// Total returns the purchase line total.
func (p Purchase) Total() float64 {
	return p.UnitPrice * float64(p.Quantity)
}

// Total returns the sale line total before discount.
func (s Sale) Total() float64 {
	return s.UnitPrice * float64(s.Quantity)
}
