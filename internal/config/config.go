package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// GatewayConfig holds the EazyPG integration settings. It is passed explicitly
// into the payment orchestrator so tests can run with fixture secrets.
type GatewayConfig struct {
	Name           string
	MerchantID     string
	SubMerchantID  string
	AESKey         string
	PaymentPageURL string
}

// URLConfig holds the public URLs the backend hands out in redirects and
// gateway return URLs.
type URLConfig struct {
	Frontend string
	Backend  string
}

// TableConfig names the DynamoDB tables per entity.
type TableConfig struct {
	Orders      string
	Courses     string
	Carts       string
	Enrollments string
	Users       string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string
}

// Config is the full application configuration.
type Config struct {
	Gateway             GatewayConfig
	URLs                URLConfig
	Tables              TableConfig
	Auth                AuthConfig
	FulfillmentQueueURL string
	MetricsNamespace    string
}

// ReturnURL is the callback endpoint the gateway posts results to. It is part
// of the encrypted outbound field set.
func (c *Config) ReturnURL() string {
	return c.URLs.Backend + "/api/v1/payments/verify/"
}

// Load reads configuration from the environment via viper.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("FRONTEND_URL", "http://127.0.0.1:3000")
	v.SetDefault("BACKEND_URL", "http://127.0.0.1:8000")
	v.SetDefault("GATEWAY_NAME", "icici")
	v.SetDefault("GATEWAY_PAYMENT_PAGE_URL", "https://eazypay.icicibank.com/EazyPG")
	v.SetDefault("ORDERS_TABLE", "orders")
	v.SetDefault("COURSES_TABLE", "courses")
	v.SetDefault("CARTS_TABLE", "carts")
	v.SetDefault("ENROLLMENTS_TABLE", "enrollments")
	v.SetDefault("USERS_TABLE", "users")
	v.SetDefault("METRICS_NAMESPACE", "AddonBackend")

	cfg := &Config{
		Gateway: GatewayConfig{
			Name:           v.GetString("GATEWAY_NAME"),
			MerchantID:     v.GetString("GATEWAY_MERCHANT_ID"),
			SubMerchantID:  v.GetString("GATEWAY_SUB_MERCHANT_ID"),
			AESKey:         v.GetString("GATEWAY_AES_KEY"),
			PaymentPageURL: v.GetString("GATEWAY_PAYMENT_PAGE_URL"),
		},
		URLs: URLConfig{
			Frontend: v.GetString("FRONTEND_URL"),
			Backend:  v.GetString("BACKEND_URL"),
		},
		Tables: TableConfig{
			Orders:      v.GetString("ORDERS_TABLE"),
			Courses:     v.GetString("COURSES_TABLE"),
			Carts:       v.GetString("CARTS_TABLE"),
			Enrollments: v.GetString("ENROLLMENTS_TABLE"),
			Users:       v.GetString("USERS_TABLE"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		FulfillmentQueueURL: v.GetString("FULFILLMENT_QUEUE_URL"),
		MetricsNamespace:    v.GetString("METRICS_NAMESPACE"),
	}

	if cfg.Gateway.AESKey == "" {
		return nil, fmt.Errorf("GATEWAY_AES_KEY is required")
	}
	if cfg.Gateway.MerchantID == "" {
		return nil, fmt.Errorf("GATEWAY_MERCHANT_ID is required")
	}

	return cfg, nil
}
