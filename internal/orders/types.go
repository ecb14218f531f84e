package orders

import "time"

// Order statuses. An order starts PENDING and moves exactly once to COMPLETED
// or FAILED, driven only by a verified gateway callback.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// DefaultCurrency applies when an order does not specify one.
const DefaultCurrency = "INR"

// LineItem is a purchase descriptor snapshotted at checkout time. It is
// stored as opaque structured metadata on the order, not a normalized
// relation.
type LineItem struct {
	Category  string  `dynamodbav:"category" json:"category"`
	Key       string  `dynamodbav:"key" json:"key"`
	Name      string  `dynamodbav:"name" json:"name"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	UnitPrice float64 `dynamodbav:"unit_price" json:"unit_price"`
}

// Order represents the item stored in the orders DynamoDB table.
type Order struct {
	Reference        string            `dynamodbav:"order_reference"`               // PK, "ord_" + 10 alphanumerics
	OwnerID          string            `dynamodbav:"owner_id"`                      // user directory reference
	GatewayPaymentID string            `dynamodbav:"gateway_payment_id,omitempty"`  // populated on callback
	LineItems        []LineItem        `dynamodbav:"line_items"`
	TotalAmount      float64           `dynamodbav:"total_amount"` // fixed at creation
	Currency         string            `dynamodbav:"currency"`
	Gateway          string            `dynamodbav:"gateway_name"`
	CallbackMetadata map[string]string `dynamodbav:"raw_callback_metadata,omitempty"` // populated on callback
	Status           string            `dynamodbav:"status"`                          // PENDING | COMPLETED | FAILED
	CreatedAt        time.Time         `dynamodbav:"created_at"`
	UpdatedAt        time.Time         `dynamodbav:"updated_at"`
}
