package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/models"
	"booking-backend/utils"
)

type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (*models.Admin, string, error)
}

type AuthController struct {
	auth AdminAuthService
}

func NewAuthController(auth AdminAuthService) *AuthController {
	return &AuthController{auth: auth}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	admin, token, err := ac.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":        admin.ID,
			"full_name": admin.FullName,
			"username":  admin.Username,
		},
	})
}
