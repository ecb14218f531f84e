package users

import (
	"context"
	"errors"
	"testing"

	awsDynamo "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type mockDynamo struct {
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func emailOf(attrs map[string]types.AttributeValue) string {
	return attrs["email"].(*types.AttributeValueMemberS).Value
}

func (m *mockDynamo) PutItem(ctx context.Context, in *awsDynamo.PutItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.PutItemOutput, error) {
	k := emailOf(in.Item)
	if in.ConditionExpression != nil {
		if _, exists := m.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[k] = in.Item
	return &awsDynamo.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, in *awsDynamo.GetItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.GetItemOutput, error) {
	item, ok := m.items[emailOf(in.Key)]
	if !ok {
		return &awsDynamo.GetItemOutput{}, nil
	}
	return &awsDynamo.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, in *awsDynamo.UpdateItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.UpdateItemOutput, error) {
	return &awsDynamo.UpdateItemOutput{}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, in *awsDynamo.DeleteItemInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.DeleteItemOutput, error) {
	return &awsDynamo.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, in *awsDynamo.QueryInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.QueryOutput, error) {
	return &awsDynamo.QueryOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, in *awsDynamo.ScanInput, optFns ...func(*awsDynamo.Options)) (*awsDynamo.ScanOutput, error) {
	return &awsDynamo.ScanOutput{}, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := NewStore(newMockDynamo(), "users")
	ctx := context.Background()

	u, err := s.Register(ctx, "jane@example.com", "jane", "hunter22pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.ID == "" {
		t.Error("expected generated user id")
	}
	if u.PasswordHash == "hunter22pass" {
		t.Error("password stored in plain text")
	}

	got, err := s.Authenticate(ctx, "jane@example.com", "hunter22pass")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated user id %s, want %s", got.ID, u.ID)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	s := NewStore(newMockDynamo(), "users")
	ctx := context.Background()

	if _, err := s.Register(ctx, "jane@example.com", "jane", "hunter22pass"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := s.Authenticate(ctx, "jane@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "hunter22pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := NewStore(newMockDynamo(), "users")
	ctx := context.Background()

	if _, err := s.Register(ctx, "jane@example.com", "jane", "hunter22pass"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := s.Register(ctx, "jane@example.com", "jane2", "other-password"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate registration: got %v, want ErrEmailTaken", err)
	}
}
