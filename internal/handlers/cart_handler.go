package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/localaddons/addon-backend/internal/cart"
	"github.com/localaddons/addon-backend/internal/catalog"
	"github.com/localaddons/addon-backend/internal/orders"
	"github.com/localaddons/addon-backend/internal/payments"
	"github.com/localaddons/addon-backend/internal/validation"
)

func registerCartRoutes(rg *gin.RouterGroup, v *validatorv10.Validate, cartsStore *cart.Store, coursesStore *catalog.Store, orch *payments.Orchestrator) {
	rg.GET("/cart", func(c *gin.Context) {
		ownerID, _ := currentUser(c)
		crt, err := cartsStore.Get(c.Request.Context(), ownerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_fetch_failed"})
			return
		}
		c.JSON(http.StatusOK, crt)
	})

	rg.POST("/cart/add", func(c *gin.Context) {
		ctx := c.Request.Context()
		ownerID, _ := currentUser(c)

		var req validation.AddToCartRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		course, err := coursesStore.GetPublished(ctx, req.ProductID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if course == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "course_not_found"})
			return
		}

		crt, err := cartsStore.AddItem(ctx, ownerID, course.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_update_failed"})
			return
		}
		c.JSON(http.StatusOK, crt)
	})

	rg.POST("/cart/remove", func(c *gin.Context) {
		ownerID, _ := currentUser(c)

		var req validation.AddToCartRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		crt, found, err := cartsStore.RemoveItem(c.Request.Context(), ownerID, req.ProductID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_update_failed"})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "item_not_in_cart"})
			return
		}
		c.JSON(http.StatusOK, crt)
	})

	rg.POST("/cart/update", func(c *gin.Context) {
		ownerID, _ := currentUser(c)

		var req validation.UpdateCartItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		crt, err := cartsStore.SetQuantity(c.Request.Context(), ownerID, req.ProductID, req.Quantity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_update_failed"})
			return
		}
		c.JSON(http.StatusOK, crt)
	})

	// checkout turns the cart into a PENDING order and hands back the hosted
	// payment page URL. The cart is cleared later by the fulfillment worker,
	// only after the payment actually completes.
	rg.POST("/cart/checkout", func(c *gin.Context) {
		ctx := c.Request.Context()
		ownerID, partnerStudent := currentUser(c)

		crt, err := cartsStore.Get(ctx, ownerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_fetch_failed"})
			return
		}
		if len(crt.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_empty"})
			return
		}

		items := make([]orders.LineItem, 0, len(crt.Items))
		for _, it := range crt.Items {
			course, err := coursesStore.GetPublished(ctx, it.ProductKey)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
				return
			}
			if course == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "course_unavailable", "product_id": it.ProductKey})
				return
			}
			items = append(items, orders.LineItem{
				Category:  "course",
				Key:       course.ID,
				Name:      course.Title,
				Quantity:  it.Quantity,
				UnitPrice: course.EffectivePrice(partnerStudent),
			})
		}

		result, err := orch.CreateOrder(ctx, ownerID, items)
		if err != nil {
			writeCreateOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// writeCreateOrderError maps orchestrator failures onto HTTP statuses.
func writeCreateOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payments.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order", "msg": err.Error()})
	case errors.Is(err, orders.ErrReferenceExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reference_generation_exhausted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order_creation_failed"})
	}
}
