package config

import "testing"

func TestLoadRequiresGatewaySettings(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected error when GATEWAY_AES_KEY is unset")
	}

	t.Setenv("GATEWAY_AES_KEY", "0123456789abcdef")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when GATEWAY_MERCHANT_ID is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GATEWAY_AES_KEY", "0123456789abcdef")
	t.Setenv("GATEWAY_MERCHANT_ID", "123456")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gateway.Name != "icici" {
		t.Errorf("gateway name = %q, want icici", cfg.Gateway.Name)
	}
	if cfg.Gateway.PaymentPageURL != "https://eazypay.icicibank.com/EazyPG" {
		t.Errorf("unexpected payment page URL %q", cfg.Gateway.PaymentPageURL)
	}
	if cfg.Tables.Orders != "orders" {
		t.Errorf("orders table = %q, want orders", cfg.Tables.Orders)
	}
	if cfg.MetricsNamespace != "AddonBackend" {
		t.Errorf("metrics namespace = %q, want AddonBackend", cfg.MetricsNamespace)
	}
}

func TestReturnURL(t *testing.T) {
	t.Setenv("GATEWAY_AES_KEY", "0123456789abcdef")
	t.Setenv("GATEWAY_MERCHANT_ID", "123456")
	t.Setenv("BACKEND_URL", "https://api.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := "https://api.example.com/api/v1/payments/verify/"
	if got := cfg.ReturnURL(); got != want {
		t.Errorf("ReturnURL() = %q, want %q", got, want)
	}
}
