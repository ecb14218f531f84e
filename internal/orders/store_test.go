package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in supporting the subset of DynamoDB
// behavior the Store relies on: conditional puts on order_reference,
// attribute_exists-guarded updates, and the payment-id index query.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue // order_reference -> item
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func strAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := strAttr(params.Item, "order_reference")
	if pk == "" {
		return nil, errors.New("no order_reference in put item")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_reference)" {
		if _, exists := m.items[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := strAttr(params.Key, "order_reference")
	item, ok := m.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := strAttr(params.Key, "order_reference")
	item, exists := m.items[pk]
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(order_reference)" && !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		return nil, errors.New("item not found")
	}
	if v, ok := params.ExpressionAttributeValues[":status"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":pid"]; ok {
		item["gateway_payment_id"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":meta"]; ok {
		item["raw_callback_metadata"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	m.items[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, strAttr(params.Key, "order_reference"))
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// only the payment-id index query is used
	pid, ok := params.ExpressionAttributeValues[":pid"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("unexpected query")
	}
	for _, item := range m.items {
		if strAttr(item, "gateway_payment_id") == pid.Value {
			return &dyn.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil
		}
	}
	return &dyn.QueryOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return &dyn.ScanOutput{}, nil
}

func sampleOrder(ref string) Order {
	return Order{
		Reference: ref,
		OwnerID:   "user-1",
		LineItems: []LineItem{
			{Category: "course", Key: "12", Name: "Go Bootcamp", Quantity: 1, UnitPrice: 1499},
		},
		TotalAmount: 1499,
		Gateway:     "icici",
		Status:      StatusPending,
	}
}

func TestCreate_SetsDefaultsAndStores(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")

	if err := store.Create(context.Background(), sampleOrder("ord_aaaaaaaaaa")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetByReference(context.Background(), "ord_aaaaaaaaaa")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("order not stored")
	}
	if got.Currency != DefaultCurrency {
		t.Fatalf("currency = %q, want %q", got.Currency, DefaultCurrency)
	}
	if got.Status != StatusPending {
		t.Fatalf("status = %q", got.Status)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
}

func TestCreate_DuplicateReference(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")

	if err := store.Create(context.Background(), sampleOrder("ord_bbbbbbbbbb")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := store.Create(context.Background(), sampleOrder("ord_bbbbbbbbbb"))
	if !errors.Is(err, ErrReferenceExists) {
		t.Fatalf("expected ErrReferenceExists, got %v", err)
	}
}

func TestExistsByReference(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")

	exists, err := store.ExistsByReference(context.Background(), "ord_cccccccccc")
	if err != nil || exists {
		t.Fatalf("expected not exists, got %v %v", exists, err)
	}
	if err := store.Create(context.Background(), sampleOrder("ord_cccccccccc")); err != nil {
		t.Fatalf("create: %v", err)
	}
	exists, err = store.ExistsByReference(context.Background(), "ord_cccccccccc")
	if err != nil || !exists {
		t.Fatalf("expected exists, got %v %v", exists, err)
	}
}

func TestApplyCallback(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")
	ctx := context.Background()

	if err := store.Create(ctx, sampleOrder("ord_dddddddddd")); err != nil {
		t.Fatalf("create: %v", err)
	}

	meta := map[string]string{"Response Code": "E000", "Unique Ref Number": "txn-9"}
	if err := store.ApplyCallback(ctx, "ord_dddddddddd", StatusCompleted, "txn-9", meta); err != nil {
		t.Fatalf("apply callback: %v", err)
	}

	got, err := store.GetByReference(ctx, "ord_dddddddddd")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %q", got.Status)
	}
	if got.GatewayPaymentID != "txn-9" {
		t.Fatalf("payment id = %q", got.GatewayPaymentID)
	}
	if got.CallbackMetadata["Response Code"] != "E000" {
		t.Fatalf("metadata = %v", got.CallbackMetadata)
	}

	// replay with identical values is a no-op overwrite, not an error
	if err := store.ApplyCallback(ctx, "ord_dddddddddd", StatusCompleted, "txn-9", meta); err != nil {
		t.Fatalf("replayed apply callback: %v", err)
	}
}

func TestApplyCallback_MissingOrder(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")

	err := store.ApplyCallback(context.Background(), "ord_eeeeeeeeee", StatusFailed, "txn-1", nil)
	if !errors.Is(err, ErrOrderMissing) {
		t.Fatalf("expected ErrOrderMissing, got %v", err)
	}
}

func TestGetByPaymentID(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")
	ctx := context.Background()

	order := sampleOrder("ord_ffffffffff")
	order.GatewayPaymentID = "240915123456789"
	item, _ := attributevalue.MarshalMap(order)
	mock.items[order.Reference] = item

	got, err := store.GetByPaymentID(ctx, "240915123456789")
	if err != nil {
		t.Fatalf("get by payment id: %v", err)
	}
	if got == nil || got.Reference != "ord_ffffffffff" {
		t.Fatalf("got %+v", got)
	}

	missing, err := store.GetByPaymentID(ctx, "no-such-txn")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil), got %v %v", missing, err)
	}
}

func TestCreate_InjectedClock(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")
	fixed := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time { return fixed }

	if err := store.Create(context.Background(), sampleOrder("ord_gggggggggg")); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _ := store.GetByReference(context.Background(), "ord_gggggggggg")
	if !got.CreatedAt.Equal(fixed) || !got.UpdatedAt.Equal(fixed) {
		t.Fatalf("timestamps = %v / %v, want %v", got.CreatedAt, got.UpdatedAt, fixed)
	}
}
