package validation

// ProductItem represents a single purchasable line in a payment request.
type ProductItem struct {
	Category  string  `json:"category" validate:"required"`       // product category, e.g. "course"
	Key       string  `json:"key" validate:"required"`            // product identifier within the category
	Name      string  `json:"name" validate:"required"`           // display name captured at purchase time
	Quantity  int     `json:"quantity" validate:"required,min=1"` // must be >= 1
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`        // price per unit, zero allowed for promos
}

// InitiatePaymentRequest is the payload for POST /payments/initiate
type InitiatePaymentRequest struct {
	Products []ProductItem `json:"products" validate:"required,min=1,dive"` // at least one product
	Amount   float64       `json:"amount,omitempty"`                        // optional total the client claims
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// AddToCartRequest is the payload for POST /cart/add
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// UpdateCartItemRequest is the payload for POST /cart/update
type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"` // zero removes the item
}
