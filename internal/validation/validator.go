package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for InitiatePaymentRequest to ensure
	// a client-supplied Amount matches the sum of (unit_price * quantity).
	v.RegisterStructValidation(initiatePaymentStructValidation, InitiatePaymentRequest{})

	return v
}

// initiatePaymentStructValidation verifies the aggregated total of products equals Amount (within cents).
// Amount is optional; when omitted the server computes the total itself.
func initiatePaymentStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(InitiatePaymentRequest)

	if req.Amount == 0 {
		return
	}

	var sum float64
	for _, p := range req.Products {
		sum += float64(p.Quantity) * p.UnitPrice
	}

	sumCents := int(math.Round(sum * 100))
	amountCents := int(math.Round(req.Amount * 100))
	if sumCents != amountCents {
		sl.ReportError(req.Amount, "amount", "Amount", "amount_match_products", fmt.Sprintf("products sum %.2f != amount %.2f", sum, req.Amount))
	}
}
