package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/localaddons/addon-backend/internal/users"
	"github.com/localaddons/addon-backend/internal/validation"
)

func registerAuthRoutes(rg *gin.RouterGroup, v *validatorv10.Validate, usersStore *users.Store, jwtSecret string) {
	rg.POST("/auth/register", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.RegisterRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		user, err := usersStore.Register(ctx, req.Email, req.Username, req.Password)
		if errors.Is(err, users.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration_failed"})
			return
		}

		token, err := users.GenerateToken(jwtSecret, user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	})

	rg.POST("/auth/login", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		user, err := usersStore.Authenticate(ctx, req.Email, req.Password)
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed"})
			return
		}

		token, err := users.GenerateToken(jwtSecret, user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	})
}
