package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qtremors/amanzon/internal/order/application"
	"github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/middleware"
	"github.com/qtremors/amanzon/pkg/response"
)

type OrderHandler struct {
	orders   *application.OrderService
	checkout *application.CheckoutService
}

func NewOrderHandler(orders *application.OrderService, checkout *application.CheckoutService) *OrderHandler {
	return &OrderHandler{orders: orders, checkout: checkout}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/orders")
	{
		api.POST("/checkout", h.Checkout)
		api.POST("/payment/callback", h.PaymentCallback)
		api.GET("", h.ListOrders)
		api.GET("/:id", h.GetOrder)
		api.POST("/:id/cancel", h.Cancel)
	}
}

type checkoutRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Country      string `json:"country" binding:"required"`
	ZipCode      string `json:"zip_code" binding:"required"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err.Error())
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), middleware.UserID(c), domain.BillingDetails{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		ZipCode:      req.ZipCode,
	})
	switch {
	case err == nil:
		response.Success(c, result)
	case errors.Is(err, domain.ErrEmptyCart):
		response.Error(c, err.Error())
	case errors.Is(err, domain.ErrStockValidationFound):
		c.JSON(http.StatusConflict, response.Body{
			Code:    http.StatusConflict,
			Message: err.Error(),
			Data:    gin.H{"stock_issues": result.StockIssues},
		})
	default:
		logger.Error(c.Request.Context(), "Checkout failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "checkout failed, please try again")
	}
}

func (h *OrderHandler) PaymentCallback(c *gin.Context) {
	var in application.CallbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, err.Error())
		return
	}

	order, err := h.checkout.HandlePaymentCallback(c.Request.Context(), middleware.UserID(c), in)
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "payment successful", order)
	case errors.Is(err, domain.ErrDuplicateOrder):
		// the payment was already processed; treat the retry as success
		response.SuccessWithMessage(c, "order already processed", order)
	case errors.Is(err, domain.ErrVerificationFailed):
		response.Error(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "Payment callback processing failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError,
			"we received your payment but could not finalize the order, please contact support")
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid order id")
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), middleware.UserID(c), uint(orderID))
	switch {
	case err == nil:
		response.Success(c, order)
	case errors.Is(err, domain.ErrOrderNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
	default:
		logger.Error(c.Request.Context(), "Failed to load order", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid order id")
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), middleware.UserID(c), uint(orderID))
	switch {
	case err == nil:
		message := "order cancelled"
		if order.IsPaid {
			message = "order cancelled, refund initiated"
		}
		response.SuccessWithMessage(c, message, order)
	case errors.Is(err, domain.ErrOrderNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotCancellable):
		response.Error(c, err.Error())
	case errors.Is(err, domain.ErrRefundFailed):
		response.ErrorWithStatus(c, http.StatusBadGateway, "refund failed, order was not cancelled, please try again later")
	default:
		logger.Error(c.Request.Context(), "Failed to cancel order", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}
