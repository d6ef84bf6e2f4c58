package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/internal/wishlist/application"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/middleware"
	"github.com/qtremors/amanzon/pkg/response"
)

type WishlistHandler struct {
	svc *application.WishlistService
}

func NewWishlistHandler(svc *application.WishlistService) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/wishlist")
	{
		api.GET("", h.List)
		api.POST("/:product_id", h.Toggle)
	}
}

func (h *WishlistHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list wishlist", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, items)
}

func (h *WishlistHandler) Toggle(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		response.Error(c, "invalid product id")
		return
	}

	added, err := h.svc.Toggle(c.Request.Context(), middleware.UserID(c), uint(productID))
	switch {
	case err == nil:
		message := "removed from wishlist"
		if added {
			message = "added to wishlist"
		}
		response.SuccessWithMessage(c, message, gin.H{"in_wishlist": added})
	case errors.Is(err, catalog.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
	default:
		logger.Error(c.Request.Context(), "Failed to toggle wishlist", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
	}
}
