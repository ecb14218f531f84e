package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localaddons/addon-backend/internal/enrollment"
)

func registerEnrollmentRoutes(rg *gin.RouterGroup, enrollmentsStore *enrollment.Store) {
	rg.GET("/enrollments", func(c *gin.Context) {
		ownerID, _ := currentUser(c)
		enrollments, err := enrollmentsStore.ListByOwner(c.Request.Context(), ownerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
	})
}
