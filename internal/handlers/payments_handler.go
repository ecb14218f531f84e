package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/localaddons/addon-backend/internal/aws"
	"github.com/localaddons/addon-backend/internal/orders"
	"github.com/localaddons/addon-backend/internal/payments"
	"github.com/localaddons/addon-backend/internal/validation"
)

func registerPaymentRoutes(public, authed *gin.RouterGroup, v *validatorv10.Validate, orch *payments.Orchestrator, publisher *aws.Publisher, metrics *aws.Metrics, frontendURL string) {
	authed.POST("/payments/initiate", func(c *gin.Context) {
		ctx := c.Request.Context()
		ownerID, _ := currentUser(c)

		var req validation.InitiatePaymentRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		items := make([]orders.LineItem, 0, len(req.Products))
		for _, p := range req.Products {
			items = append(items, orders.LineItem{
				Category:  p.Category,
				Key:       p.Key,
				Name:      p.Name,
				Quantity:  p.Quantity,
				UnitPrice: p.UnitPrice,
			})
		}

		result, err := orch.CreateOrder(ctx, ownerID, items)
		if err != nil {
			writeCreateOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// The gateway posts the payment result here as a form body, with the end
	// user's browser as the carrier. Whatever happens, the response must be a
	// redirect back into the storefront.
	public.POST("/payments/verify/", func(c *gin.Context) {
		ctx := c.Request.Context()

		body, err := c.GetRawData()
		if err != nil {
			log.Printf("payment callback body read failed: %v", err)
			c.Redirect(http.StatusSeeOther, frontendURL+"/cart?payment=error")
			return
		}

		result := orch.VerifyPayment(ctx, body)
		if !result.Verified() {
			metrics.Count(ctx, aws.MetricPaymentRejected)
			if result.Reason == payments.ReasonInvalidSignature {
				metrics.Count(ctx, aws.MetricCallbackSignatureMismatch)
				c.Redirect(http.StatusSeeOther, frontendURL+"/dashboard?payment=invalid")
				return
			}
			c.Redirect(http.StatusSeeOther, frontendURL+"/cart?payment=error")
			return
		}

		metrics.Count(ctx, aws.MetricPaymentVerified)

		if result.PaymentStatus == orders.StatusCompleted {
			err := publisher.SendFulfillment(ctx, aws.FulfillmentMessage{
				OrderReference: result.OrderReference,
				OwnerID:        result.OwnerID,
				CorrelationID:  c.GetHeader("X-Request-Id"),
			})
			if err != nil {
				// The order is already COMPLETED; fulfillment catches up via
				// reconciliation if the enqueue is lost.
				log.Printf("fulfillment enqueue failed for %q: %v", result.OrderReference, err)
			}
			c.Redirect(http.StatusSeeOther, frontendURL+"/my-courses?payment=success&reference="+url.QueryEscape(result.OrderReference))
			return
		}

		c.Redirect(http.StatusSeeOther, frontendURL+"/dashboard?payment=failed&reference="+url.QueryEscape(result.OrderReference))
	})

	// Browsers occasionally land here with a GET after the gateway flow is
	// abandoned; send them home.
	public.GET("/payments/verify/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, frontendURL+"/dashboard")
	})

	authed.GET("/payments/:reference/status", func(c *gin.Context) {
		status, err := orch.GetPaymentStatus(c.Request.Context(), c.Param("reference"))
		if errors.Is(err, payments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment_not_found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "status_lookup_failed"})
			return
		}
		c.JSON(http.StatusOK, status)
	})
}
