package accounts

// Payment methods accepted on the customer path.
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
)

// PaymentRequest applies a payment against an account. OperationID is a
// client-generated id so a retried submission is applied at most once; one is
// generated when absent.
type PaymentRequest struct {
	Key            string  `json:"key" validate:"required,max=200"`
	Brand          string  `json:"brand" validate:"omitempty,max=100"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	DiscountAmount float64 `json:"discount_amount" validate:"gte=0"`
	Method         string  `json:"method" validate:"omitempty,oneof=cash bank_transfer"`
	BankName       string  `json:"bank_name" validate:"omitempty,max=200"`
	Date           string  `json:"date" validate:"omitempty"`
	OperationID    string  `json:"operation_id" validate:"omitempty,uuid4"`
}
