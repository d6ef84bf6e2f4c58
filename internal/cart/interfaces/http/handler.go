package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qtremors/amanzon/internal/cart/application"
	"github.com/qtremors/amanzon/internal/cart/domain"
	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	coupondomain "github.com/qtremors/amanzon/internal/coupon/domain"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/middleware"
	"github.com/qtremors/amanzon/pkg/response"
)

type CartHandler struct {
	svc *application.CartService
}

func NewCartHandler(svc *application.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/cart")
	{
		api.GET("", h.GetCart)
		api.POST("/items/:product_id", h.AddProduct)
		api.PUT("/items/:item_id", h.UpdateQuantity)
		api.DELETE("/items/:item_id", h.RemoveItem)
		api.POST("/coupon", h.ApplyCoupon)
		api.DELETE("/coupon", h.RemoveCoupon)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.svc.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load cart", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, view)
}

func (h *CartHandler) AddProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid product id")
		return
	}

	err = h.svc.AddProduct(c.Request.Context(), middleware.UserID(c), uint(productID))
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "added to cart", nil)
	case errors.Is(err, catalog.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
	case errors.Is(err, catalog.ErrProductInactive), errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrStockExceeded):
		response.Error(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "Failed to add product to cart", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

type updateQuantityRequest struct {
	Action string `json:"action" binding:"required,oneof=increase decrease"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid item id")
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err.Error())
		return
	}

	err = h.svc.UpdateQuantity(c.Request.Context(), middleware.UserID(c), uint(itemID), application.QuantityAction(req.Action))
	switch {
	case err == nil:
		response.Success(c, nil)
	case errors.Is(err, domain.ErrCartItemNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "cart item not found")
	default:
		logger.Error(c.Request.Context(), "Failed to update cart item", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid item id")
		return
	}

	err = h.svc.RemoveItem(c.Request.Context(), middleware.UserID(c), uint(itemID))
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "removed from cart", nil)
	case errors.Is(err, domain.ErrCartItemNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, "cart item not found")
	default:
		logger.Error(c.Request.Context(), "Failed to remove cart item", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

type applyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "please enter a coupon code")
		return
	}

	coupon, err := h.svc.ApplyCoupon(c.Request.Context(), middleware.UserID(c), req.Code)
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "coupon applied", gin.H{
			"code":             coupon.Code,
			"discount_percent": coupon.DiscountPercent,
		})
	case errors.Is(err, coupondomain.ErrEmptyCode),
		errors.Is(err, coupondomain.ErrInvalidCode),
		errors.Is(err, coupondomain.ErrExpired),
		errors.Is(err, coupondomain.ErrAlreadyUsed):
		response.Error(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "Failed to apply coupon", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	if err := h.svc.RemoveCoupon(c.Request.Context(), middleware.UserID(c)); err != nil {
		logger.Error(c.Request.Context(), "Failed to remove coupon", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.SuccessWithMessage(c, "coupon removed", nil)
}
