// Package payments drives the order lifecycle around the EazyPG gateway:
// building the encrypted payment-initiation redirect, authenticating inbound
// callbacks, and applying the resulting order-state transition.
package payments

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/localaddons/addon-backend/internal/config"
	"github.com/localaddons/addon-backend/internal/eazypay"
	"github.com/localaddons/addon-backend/internal/orders"
)

// Store is the slice of the order store the orchestrator needs.
type Store interface {
	Create(ctx context.Context, order orders.Order) error
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	GetByReference(ctx context.Context, reference string) (*orders.Order, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*orders.Order, error)
	ApplyCallback(ctx context.Context, reference, status, paymentID string, metadata map[string]string) error
}

// CreateOrderResult is handed back to the checkout caller.
type CreateOrderResult struct {
	PaymentURL  string `json:"payment_url"`
	ReferenceID string `json:"reference_id"`
}

// Verification result statuses and error reasons.
const (
	ResultVerified = "VERIFIED"
	ResultError    = "error"

	ReasonInvalidSignature = "invalid_signature"
	ReasonOrderNotFound    = "order_not_found"
	ReasonProcessingFailed = "processing_failed"
)

// VerificationResult is the structured outcome of a callback. Failures are
// results, not errors: the HTTP caller must always redirect the end user
// somewhere instead of crashing.
type VerificationResult struct {
	Status         string
	Reason         string
	OwnerID        string
	PaymentStatus  string
	OrderReference string
	TransactionID  string
}

// Verified reports whether the callback authenticated and was applied.
func (r VerificationResult) Verified() bool { return r.Status == ResultVerified }

// PaymentStatus is returned by status lookups.
type PaymentStatus struct {
	PaymentStatus  string `json:"payment_status"`
	OrderReference string `json:"order_reference"`
	Gateway        string `json:"gateway_name"`
}

// Orchestrator builds outbound payment requests and verifies inbound
// callbacks against a single configured gateway.
type Orchestrator struct {
	store     Store
	codec     *eazypay.Codec
	gateway   config.GatewayConfig
	returnURL string
	nowFunc   func() time.Time
}

// NewOrchestrator wires the orchestrator to its store and gateway settings.
// The gateway config is passed explicitly so tests run with fixture secrets.
func NewOrchestrator(store Store, gateway config.GatewayConfig, returnURL string) (*Orchestrator, error) {
	codec, err := eazypay.NewCodec([]byte(gateway.AESKey))
	if err != nil {
		return nil, fmt.Errorf("gateway codec: %w", err)
	}
	return &Orchestrator{
		store:     store,
		codec:     codec,
		gateway:   gateway,
		returnURL: returnURL,
		nowFunc:   time.Now,
	}, nil
}

// CreateOrder persists a PENDING order for the line items and returns the
// hosted payment page URL the caller should redirect to. A generated
// reference that collides with an existing order is retried up to
// orders.MaxReferenceAttempts times; the store's conditional put is the
// authoritative race-breaker, the exists pre-check just avoids burning a
// write on an obvious collision.
func (o *Orchestrator) CreateOrder(ctx context.Context, ownerID string, items []orders.LineItem) (CreateOrderResult, error) {
	if err := validateLineItems(items); err != nil {
		return CreateOrderResult{}, err
	}

	var total float64
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
	}

	var reference string
	for attempt := 0; ; attempt++ {
		if attempt == orders.MaxReferenceAttempts {
			return CreateOrderResult{}, orders.ErrReferenceExhausted
		}
		ref, err := orders.NewReference()
		if err != nil {
			return CreateOrderResult{}, fmt.Errorf("generate reference: %w", err)
		}
		exists, err := o.store.ExistsByReference(ctx, ref)
		if err != nil {
			return CreateOrderResult{}, fmt.Errorf("check reference: %w", err)
		}
		if exists {
			continue
		}

		now := o.nowFunc()
		err = o.store.Create(ctx, orders.Order{
			Reference:   ref,
			OwnerID:     ownerID,
			LineItems:   items,
			TotalAmount: total,
			Currency:    orders.DefaultCurrency,
			Gateway:     o.gateway.Name,
			Status:      orders.StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err == orders.ErrReferenceExists {
			continue
		}
		if err != nil {
			return CreateOrderResult{}, fmt.Errorf("create order: %w", err)
		}
		reference = ref
		break
	}

	url := eazypay.BuildPaymentURL(o.codec, o.gateway.PaymentPageURL, o.gateway.MerchantID, eazypay.PaymentRequest{
		ReferenceNo:   reference,
		SubMerchantID: o.gateway.SubMerchantID,
		Amount:        formatAmount(total),
		ReturnURL:     o.returnURL,
	})

	return CreateOrderResult{PaymentURL: url, ReferenceID: reference}, nil
}

// VerifyPayment parses and authenticates a raw gateway callback body, then
// applies the order transition. All failure modes come back as error results;
// no order is mutated unless the signature verified and the order exists.
// Retransmitted callbacks re-apply the same values and succeed.
func (o *Orchestrator) VerifyPayment(ctx context.Context, rawBody []byte) VerificationResult {
	cb := eazypay.ParseCallback(rawBody)

	reference := cb.Reference()
	transactionID := cb.TransactionID()

	paymentStatus := orders.StatusFailed
	if cb.Success() {
		paymentStatus = orders.StatusCompleted
	}

	if !eazypay.VerifySignature(cb, o.gateway.AESKey) {
		log.Printf("payment callback rejected: bad signature, reference=%q", reference)
		return VerificationResult{Status: ResultError, Reason: ReasonInvalidSignature, OrderReference: reference}
	}

	order, err := o.store.GetByReference(ctx, reference)
	if err != nil {
		log.Printf("payment callback lookup failed for %q: %v", reference, err)
		return VerificationResult{Status: ResultError, Reason: ReasonProcessingFailed, OrderReference: reference}
	}
	if order == nil {
		log.Printf("payment callback for unknown reference %q", reference)
		return VerificationResult{Status: ResultError, Reason: ReasonOrderNotFound, OrderReference: reference}
	}

	if err := o.store.ApplyCallback(ctx, reference, paymentStatus, transactionID, cb); err != nil {
		// A failure here leaves the gateway believing payment went through
		// while the local record still says PENDING; reconciliation picks
		// those up out of band.
		log.Printf("payment callback apply failed for %q: %v", reference, err)
		return VerificationResult{Status: ResultError, Reason: ReasonProcessingFailed, OrderReference: reference}
	}

	return VerificationResult{
		Status:         ResultVerified,
		OwnerID:        order.OwnerID,
		PaymentStatus:  paymentStatus,
		OrderReference: reference,
		TransactionID:  transactionID,
	}
}

// GetPaymentStatus looks an order up by either the internally generated
// reference or the gateway's own payment id.
func (o *Orchestrator) GetPaymentStatus(ctx context.Context, reference string) (PaymentStatus, error) {
	order, err := o.store.GetByReference(ctx, reference)
	if err != nil {
		return PaymentStatus{}, fmt.Errorf("lookup by reference: %w", err)
	}
	if order == nil {
		order, err = o.store.GetByPaymentID(ctx, reference)
		if err != nil {
			return PaymentStatus{}, fmt.Errorf("lookup by payment id: %w", err)
		}
	}
	if order == nil {
		return PaymentStatus{}, ErrNotFound
	}
	return PaymentStatus{
		PaymentStatus:  order.Status,
		OrderReference: order.Reference,
		Gateway:        order.Gateway,
	}, nil
}

func validateLineItems(items []orders.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no line items", ErrInvalidOrder)
	}
	for i, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity %d", ErrInvalidOrder, i, it.Quantity)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("%w: item %d negative unit price", ErrInvalidOrder, i)
		}
	}
	return nil
}

// formatAmount renders an amount without trailing zeros, matching what the
// gateway echoes back in the mandatory-fields triple.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
