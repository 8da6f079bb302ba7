package trade

type CreatePurchaseRequest struct {
	Company   string  `json:"company" validate:"required,max=200"`
	Brand     string  `json:"brand" validate:"required,max=100"`
	Model     string  `json:"model" validate:"omitempty,max=100"`
	Size      string  `json:"size" validate:"required,max=50"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gte=0"`
	Date      string  `json:"date" validate:"required"`
	ShopStock int     `json:"shop_stock" validate:"gte=0"`
}

type CreateSaleRequest struct {
	Customer        string  `json:"customer" validate:"omitempty,max=200"`
	Company         string  `json:"company" validate:"omitempty,max=200"`
	Brand           string  `json:"brand" validate:"required,max=100"`
	Model           string  `json:"model" validate:"omitempty,max=100"`
	Size            string  `json:"size" validate:"required,max=50"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	Quantity        int     `json:"quantity" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	Due             float64 `json:"due" validate:"gte=0"`
	Date            string  `json:"date" validate:"required"`
	InvoiceNumber   string  `json:"invoice_number" validate:"required,max=50"`
}

type CreateReturnRequest struct {
	Customer          string  `json:"customer" validate:"omitempty,max=200"`
	Company           string  `json:"company" validate:"omitempty,max=200"`
	Brand             string  `json:"brand" validate:"required,max=100"`
	Model             string  `json:"model" validate:"omitempty,max=100"`
	Size              string  `json:"size" validate:"required,max=50"`
	OriginalUnitPrice float64 `json:"original_unit_price" validate:"gte=0"`
	OriginalQuantity  int     `json:"original_quantity" validate:"gte=0"`
	ReturnUnitPrice   float64 `json:"return_unit_price" validate:"gte=0"`
	ReturnQuantity    int     `json:"return_quantity" validate:"gte=0"`
	Date              string  `json:"date" validate:"required"`
	Comment           string  `json:"comment" validate:"omitempty,max=500"`
}

// UpdatePurchaseRequest overwrites an existing purchase by id.
type UpdatePurchaseRequest = CreatePurchaseRequest

// UpdateSaleRequest overwrites an existing sale by id.
type UpdateSaleRequest = CreateSaleRequest
