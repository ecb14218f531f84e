// Package cart persists one cart record per user, mirroring the storefront's
// one-cart-per-account model.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/localaddons/addon-backend/internal/aws"
)

// Item is one course in a cart.
type Item struct {
	ProductKey string    `dynamodbav:"product_key" json:"product_id"`
	Quantity   int       `dynamodbav:"quantity" json:"quantity"`
	AddedAt    time.Time `dynamodbav:"added_at" json:"added_at"`
	UpdatedAt  time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// Cart represents the item stored in the carts DynamoDB table.
type Cart struct {
	OwnerID   string    `dynamodbav:"owner_id" json:"owner_id"` // PK
	Items     []Item    `dynamodbav:"items" json:"items"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// Store encapsulates operations on the carts table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new cart Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get returns the user's cart, materializing an empty one when none is stored.
func (s *Store) Get(ctx context.Context, ownerID string) (*Cart, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       ownerKey(ownerID),
	})
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(out.Item) == 0 {
		now := s.nowFunc()
		return &Cart{OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}, nil
	}
	var c Cart
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &c, nil
}

// AddItem adds a course to the cart with quantity 1, or leaves an already
// present line untouched.
func (s *Store) AddItem(ctx context.Context, ownerID, productKey string) (*Cart, error) {
	c, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	if c.item(productKey) == nil {
		c.Items = append(c.Items, Item{
			ProductKey: productKey,
			Quantity:   1,
			AddedAt:    now,
			UpdatedAt:  now,
		})
	}
	if err := s.put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes a course line from the cart. The bool reports whether
// the line existed.
func (s *Store) RemoveItem(ctx context.Context, ownerID, productKey string) (*Cart, bool, error) {
	c, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}
	found := false
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductKey == productKey {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	if !found {
		return c, false, nil
	}
	if err := s.put(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// SetQuantity updates a line's quantity. Zero or negative deletes the line;
// a positive quantity for a missing line creates it.
func (s *Store) SetQuantity(ctx context.Context, ownerID, productKey string, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	if quantity <= 0 {
		kept := c.Items[:0]
		for _, it := range c.Items {
			if it.ProductKey != productKey {
				kept = append(kept, it)
			}
		}
		c.Items = kept
	} else if existing := c.item(productKey); existing != nil {
		existing.Quantity = quantity
		existing.UpdatedAt = now
	} else {
		c.Items = append(c.Items, Item{
			ProductKey: productKey,
			Quantity:   quantity,
			AddedAt:    now,
			UpdatedAt:  now,
		})
	}
	if err := s.put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the user's cart.
func (s *Store) Clear(ctx context.Context, ownerID string) error {
	if _, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key:       ownerKey(ownerID),
	}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put cart: %w", err)
	}
	return nil
}

func (c *Cart) item(productKey string) *Item {
	for i := range c.Items {
		if c.Items[i].ProductKey == productKey {
			return &c.Items[i]
		}
	}
	return nil
}

func ownerKey(ownerID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"owner_id": &types.AttributeValueMemberS{Value: ownerID},
	}
}
