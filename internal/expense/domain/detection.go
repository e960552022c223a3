package domain

// TransactionType classifies what kind of money movement an email describes
type TransactionType string

const (
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
	TransactionUnknown  TransactionType = "unknown"
)

// DetectionResult is the model's verdict on whether an email is a financial
// transaction. The boolean is authoritative; confidence is advisory only and
// never overrides it.
type DetectionResult struct {
	IsTransaction   bool            `json:"is_transaction"`
	Confidence      float64         `json:"confidence"`
	TransactionType TransactionType `json:"transaction_type"`
	Indicators      []string        `json:"indicators"`
	Reasoning       string          `json:"reasoning"`
}
