package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localaddons/addon-backend/internal/catalog"
)

func registerCatalogRoutes(rg *gin.RouterGroup, coursesStore *catalog.Store) {
	rg.GET("/courses", func(c *gin.Context) {
		courses, err := coursesStore.ListPublished(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"courses": courses})
	})

	rg.GET("/courses/featured", func(c *gin.Context) {
		courses, err := coursesStore.ListFeatured(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"courses": courses})
	})

	// lookup accepts either the numeric course id or the slug
	rg.GET("/courses/:lookup", func(c *gin.Context) {
		course, err := coursesStore.GetPublished(c.Request.Context(), c.Param("lookup"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if course == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "course_not_found"})
			return
		}
		c.JSON(http.StatusOK, course)
	})
}
