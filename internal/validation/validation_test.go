package validation

import "testing"

func TestInitiatePaymentRequest_Valid(t *testing.T) {
	v := New()

	req := InitiatePaymentRequest{
		Products: []ProductItem{
			{Category: "course", Key: "42", Name: "Applied Cryptography", Quantity: 1, UnitPrice: 1499},
			{Category: "course", Key: "7", Name: "Intro to Go", Quantity: 2, UnitPrice: 250.50},
		},
		Amount: 2000, // 1499 + 2*250.50
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestInitiatePaymentRequest_AmountOmitted(t *testing.T) {
	v := New()

	req := InitiatePaymentRequest{
		Products: []ProductItem{
			{Category: "course", Key: "42", Name: "Applied Cryptography", Quantity: 1, UnitPrice: 1499},
		},
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid without amount, got error: %v", err)
	}
}

func TestInitiatePaymentRequest_AmountMismatch(t *testing.T) {
	v := New()

	req := InitiatePaymentRequest{
		Products: []ProductItem{
			{Category: "course", Key: "42", Name: "Applied Cryptography", Quantity: 1, UnitPrice: 1499},
		},
		Amount: 999,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for amount mismatch, got nil")
	}
}

func TestInitiatePaymentRequest_MissingFields(t *testing.T) {
	v := New()

	req := InitiatePaymentRequest{
		Products: []ProductItem{
			{Category: "course", Quantity: 0}, // missing key, name; quantity too low
		},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}

func TestLoginRequest(t *testing.T) {
	v := New()

	valid := LoginRequest{Email: "jane@example.com", Password: "hunter22"}
	if err := v.Struct(valid); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}

	invalid := LoginRequest{Email: "not-an-email", Password: "hunter22"}
	if err := v.Struct(invalid); err == nil {
		t.Fatal("expected validation error for bad email, got nil")
	}
}

func TestUpdateCartItemRequest(t *testing.T) {
	v := New()

	zero := UpdateCartItemRequest{ProductID: "42", Quantity: 0}
	if err := v.Struct(zero); err != nil {
		t.Fatalf("expected zero quantity to be valid, got error: %v", err)
	}

	negative := UpdateCartItemRequest{ProductID: "42", Quantity: -1}
	if err := v.Struct(negative); err == nil {
		t.Fatal("expected validation error for negative quantity, got nil")
	}
}
