package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/localaddons/addon-backend/internal/aws"
	"github.com/localaddons/addon-backend/internal/cart"
	"github.com/localaddons/addon-backend/internal/config"
	"github.com/localaddons/addon-backend/internal/enrollment"
	"github.com/localaddons/addon-backend/internal/orders"
)

// Processor consumes fulfillment messages and grants course access for
// completed orders.
type Processor struct {
	orderStore  *orders.Store
	enrollStore *enrollment.Store
	cartStore   *cart.Store
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, tables config.TableConfig) *Processor {
	return &Processor{
		orderStore:  orders.NewStore(clients.DynamoDB, tables.Orders),
		enrollStore: enrollment.NewStore(clients.DynamoDB, tables.Enrollments),
		cartStore:   cart.NewStore(clients.DynamoDB, tables.Carts),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

// processMessage fulfills one verified payment. Enrollment uses a conditional
// put keyed on (owner, course), so a redelivered message for an order that was
// already fulfilled lands on existing records and succeeds.
func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg aws.FulfillmentMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s owner=%s corr=%s",
		msg.OrderReference, msg.OwnerID, msg.CorrelationID)

	order, err := p.orderStore.GetByReference(ctx, msg.OrderReference)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen. DLQ if it does.
		return fmt.Errorf("order not found: %s", msg.OrderReference)
	}

	if order.Status != orders.StatusCompleted {
		// The callback handler only enqueues completed payments, so this is
		// either a stale message or a replay racing a reconciliation rollback.
		log.Printf("[worker] skipping order=%s with status=%s", order.Reference, order.Status)
		return nil
	}

	for _, it := range order.LineItems {
		if it.Category != "course" {
			log.Printf("[worker] no fulfillment for category=%s key=%s on order=%s", it.Category, it.Key, order.Reference)
			continue
		}
		created, err := p.enrollStore.Enroll(ctx, order.OwnerID, it.Key, order.Reference)
		if err != nil {
			return fmt.Errorf("enroll owner=%s course=%s: %w", order.OwnerID, it.Key, err)
		}
		if created {
			log.Printf("[worker] enrolled owner=%s course=%s order=%s", order.OwnerID, it.Key, order.Reference)
		} else {
			log.Printf("[worker] owner=%s already enrolled in course=%s", order.OwnerID, it.Key)
		}
	}

	if err := p.cartStore.Clear(ctx, order.OwnerID); err != nil {
		return fmt.Errorf("clear cart for owner=%s: %w", order.OwnerID, err)
	}

	log.Printf("[worker] fulfilled order=%s", order.Reference)
	return nil
}
