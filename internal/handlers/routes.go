package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/localaddons/addon-backend/internal/aws"
	"github.com/localaddons/addon-backend/internal/cart"
	"github.com/localaddons/addon-backend/internal/catalog"
	"github.com/localaddons/addon-backend/internal/config"
	"github.com/localaddons/addon-backend/internal/enrollment"
	"github.com/localaddons/addon-backend/internal/orders"
	"github.com/localaddons/addon-backend/internal/payments"
	"github.com/localaddons/addon-backend/internal/users"
	"github.com/localaddons/addon-backend/internal/validation"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI
	Cfg              *config.Config
}

// RegisterRoutes wires all API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, hc HandlerConfig) error {
	v := validation.New()

	ordersStore := orders.NewStore(hc.DynamoDBClient, hc.Cfg.Tables.Orders)
	coursesStore := catalog.NewStore(hc.DynamoDBClient, hc.Cfg.Tables.Courses)
	cartsStore := cart.NewStore(hc.DynamoDBClient, hc.Cfg.Tables.Carts)
	enrollmentsStore := enrollment.NewStore(hc.DynamoDBClient, hc.Cfg.Tables.Enrollments)
	usersStore := users.NewStore(hc.DynamoDBClient, hc.Cfg.Tables.Users)

	orch, err := payments.NewOrchestrator(ordersStore, hc.Cfg.Gateway, hc.Cfg.ReturnURL())
	if err != nil {
		return fmt.Errorf("init payment orchestrator: %w", err)
	}

	publisher := aws.NewPublisher(hc.SQSClient, hc.Cfg.FulfillmentQueueURL)
	metrics := aws.NewMetrics(hc.CloudWatchClient, hc.Cfg.MetricsNamespace)

	api := r.Group("/api/v1")

	registerAuthRoutes(api, v, usersStore, hc.Cfg.Auth.JWTSecret)
	registerCatalogRoutes(api, coursesStore)

	authed := api.Group("")
	authed.Use(AuthRequired(hc.Cfg.Auth.JWTSecret))
	registerCartRoutes(authed, v, cartsStore, coursesStore, orch)
	registerEnrollmentRoutes(authed, enrollmentsStore)

	registerPaymentRoutes(api, authed, v, orch, publisher, metrics, hc.Cfg.URLs.Frontend)

	return nil
}
