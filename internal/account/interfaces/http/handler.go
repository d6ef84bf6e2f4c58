package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qtremors/amanzon/internal/account/application"
	"github.com/qtremors/amanzon/internal/account/domain"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/middleware"
	"github.com/qtremors/amanzon/pkg/response"
)

type AccountHandler struct {
	svc *application.AccountService
}

func NewAccountHandler(svc *application.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// RegisterPublicRoutes 无需登录的认证入口，挂在限流中间件之后
func (h *AccountHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/register", h.Register)
		api.GET("/verify/:token", h.Verify)
		api.POST("/login", h.Login)
		api.POST("/password-reset", h.RequestPasswordReset)
		api.POST("/password-reset/confirm", h.ConfirmPasswordReset)
	}
}

// RegisterProtectedRoutes 需要登录的个人资料入口
func (h *AccountHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/profile")
	{
		api.GET("", h.Profile)
		api.PUT("", h.UpdateProfile)
	}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err.Error())
		return
	}

	user, err := h.svc.Register(c.Request.Context(), application.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "registered, please check your email to verify your account", gin.H{
			"user_id": user.ID,
		})
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
		response.Error(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "Registration failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

func (h *AccountHandler) Verify(c *gin.Context) {
	err := h.svc.Verify(c.Request.Context(), c.Param("token"))
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "account verified, you can now log in", nil)
	case errors.Is(err, domain.ErrAlreadyVerified):
		response.SuccessWithMessage(c, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidToken):
		response.Error(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "Verification failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err.Error())
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		response.Success(c, gin.H{
			"token":    token,
			"username": user.Username,
			"email":    user.Email,
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAccountInactive):
		response.ErrorWithStatus(c, http.StatusForbidden, err.Error())
	default:
		logger.Error(c.Request.Context(), "Login failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AccountHandler) RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err.Error())
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		logger.Error(c.Request.Context(), "Password reset request failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	// same response whether or not the email exists
	response.SuccessWithMessage(c, "if the email exists, an otp has been sent", nil)
}

type passwordResetConfirmRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AccountHandler) ConfirmPasswordReset(c *gin.Context) {
	var req passwordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err.Error())
		return
	}

	err := h.svc.ConfirmPasswordReset(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "password updated, you can now log in", nil)
	case errors.Is(err, domain.ErrInvalidOTP):
		response.Error(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "Password reset confirm failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

func (h *AccountHandler) Profile(c *gin.Context) {
	user, err := h.svc.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load profile", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, user)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	update := application.ProfileUpdate{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
	}

	file, header, err := c.Request.FormFile("picture")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.Error(c, "invalid picture upload")
		return
	}

	var user *domain.User
	if file != nil {
		defer file.Close()
		user, err = h.svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), update, file, header.Filename)
	} else {
		user, err = h.svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), update, nil, "")
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to update profile", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, user)
}
