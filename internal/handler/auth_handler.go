package handler

import (
	"errors"
	"net/http"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/middleware"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/response"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Validates the operator credentials and returns a JWT.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, op, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":    token,
		"operator": op,
	})
}

// GetAdminProfile godoc
// GET /api/v1/auth/admin/me
// Returns the currently authenticated operator.
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"operator": model.Operator{
			Username:    claims.Username,
			Permissions: claims.Permissions,
		},
	})
}
