package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qtremors/amanzon/internal/account/application"
	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	reviewapp "github.com/qtremors/amanzon/internal/review/application"
	"github.com/qtremors/amanzon/internal/review/domain"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/middleware"
	"github.com/qtremors/amanzon/pkg/response"
)

type ReviewHandler struct {
	reviews  *reviewapp.ReviewService
	accounts *application.AccountService
}

func NewReviewHandler(reviews *reviewapp.ReviewService, accounts *application.AccountService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, accounts: accounts}
}

func (h *ReviewHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/api/v1/products/:product_id/reviews", h.ListByProduct)
	protected.POST("/api/v1/products/:product_id/reviews", h.Create)
}

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid product id")
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err.Error())
		return
	}

	userID := middleware.UserID(c)
	user, err := h.accounts.Profile(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load reviewer", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), userID, user.Username, uint(productID), req.Rating, req.Comment)
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "review submitted", review)
	case errors.Is(err, catalog.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyReviewed), errors.Is(err, domain.ErrInvalidRating):
		response.Error(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "Failed to create review", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid product id")
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), uint(productID))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list reviews", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, reviews)
}
