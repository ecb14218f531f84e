package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/localaddons/addon-backend/internal/aws"
)

// paymentIDIndex is the GSI keyed on gateway_payment_id, used for status
// lookups by the gateway's own identifier.
const paymentIDIndex = "gateway_payment_id-index"

var (
	// ErrReferenceExists indicates a conditional create lost the uniqueness
	// race on order_reference. Callers regenerate and retry.
	ErrReferenceExists = errors.New("orders: order reference already exists")
	// ErrOrderMissing indicates a callback apply targeted a reference with no
	// stored order.
	ErrOrderMissing = errors.New("orders: order not found")
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new order. The conditional expression on order_reference
// is the authoritative uniqueness guard; a lost race returns
// ErrReferenceExists so the caller can generate a fresh reference.
func (s *Store) Create(ctx context.Context, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if order.Currency == "" {
		order.Currency = DefaultCurrency
	}

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_reference)"),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return ErrReferenceExists
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// ExistsByReference reports whether an order with the reference is stored.
// It is a pre-check only; Create's conditional put decides races.
func (s *Store) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:            &s.tableName,
		Key:                  referenceKey(reference),
		ProjectionExpression: awsString("order_reference"),
	})
	if err != nil {
		return false, fmt.Errorf("get item: %w", err)
	}
	return len(out.Item) > 0, nil
}

// GetByReference fetches an order by order_reference. Returns (nil, nil) if not found.
func (s *Store) GetByReference(ctx context.Context, reference string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       referenceKey(reference),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// GetByPaymentID fetches an order by the gateway's own payment identifier via
// the GSI. Returns (nil, nil) if not found.
func (s *Store) GetByPaymentID(ctx context.Context, paymentID string) (*Order, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(paymentIDIndex),
		KeyConditionExpression: awsString("gateway_payment_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: paymentID},
		},
		Limit: awsInt32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query payment id index: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Items[0], &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ApplyCallback writes the verified callback outcome onto the order: final
// status, the gateway payment id, and the raw parsed callback. The single
// conditional UpdateItem serializes concurrent duplicate callbacks at the
// storage layer; replaying an identical callback overwrites equal values and
// succeeds. Returns ErrOrderMissing when no order has the reference.
func (s *Store) ApplyCallback(ctx context.Context, reference, status, paymentID string, metadata map[string]string) error {
	now := s.nowFunc()

	meta, err := attributevalue.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal callback metadata: %w", err)
	}

	input := &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              referenceKey(reference),
		UpdateExpression: awsString("SET #s = :status, gateway_payment_id = :pid, raw_callback_metadata = :meta, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
			":pid":    &types.AttributeValueMemberS{Value: paymentID},
			":meta":   meta,
			":ua":     &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("attribute_exists(order_reference)"),
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return ErrOrderMissing
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func referenceKey(reference string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"order_reference": &types.AttributeValueMemberS{Value: reference},
	}
}

// isConditionalCheckFailed detects a failed ConditionExpression either as the
// typed exception or by smithy error code.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }
func awsInt32(i int32) *int32    { return &i }
