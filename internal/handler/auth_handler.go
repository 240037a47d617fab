package handler

import (
	"net/http"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	attempts    StudentAttempts
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, attempts StudentAttempts) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		attempts:    attempts,
	}
}

// StudentLogin godoc
// POST /api/student/:examCode/login
// Registers the student against an active exam and returns their token.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.attempts.Login(c.Request.Context(), c.Param("examCode"), req.RollNumber, req.FullName)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// AdminLogin godoc
// POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, expiresAt, err := h.authService.LoginAdmin(req.Username, req.Password)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}
