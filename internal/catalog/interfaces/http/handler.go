package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/qtremors/amanzon/internal/catalog/application"
	"github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/response"
)

type CatalogHandler struct {
	svc      *application.CatalogService
	pageSize int
}

func NewCatalogHandler(svc *application.CatalogService, pageSize int) *CatalogHandler {
	return &CatalogHandler{svc: svc, pageSize: pageSize}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/catalog")
	{
		api.GET("/home", h.Home)
		api.GET("/categories", h.ListCategories)
		api.GET("/products", h.ListProducts)
		api.GET("/products/:slug", h.ProductDetail)
	}
}

func (h *CatalogHandler) Home(c *gin.Context) {
	categories, featured, err := h.svc.Home(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load home data", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, gin.H{"categories": categories, "featured_products": featured})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list categories", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, categories)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := domain.ListFilter{
		CategorySlug: c.Query("category"),
		Query:        c.Query("q"),
		Sort:         domain.SortOrder(c.Query("sort")),
		PageSize:     h.pageSize,
	}
	if v := c.Query("subcategory"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.Error(c, "invalid subcategory id")
			return
		}
		filter.SubCategoryID = uint(id)
	}
	if v := c.Query("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			response.Error(c, "invalid min_price")
			return
		}
		filter.MinPrice = &d
	}
	if v := c.Query("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			response.Error(c, "invalid max_price")
			return
		}
		filter.MaxPrice = &d
	}
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			response.Error(c, "invalid page")
			return
		}
		filter.Page = page
	}

	products, total, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, gin.H{
		"products":  products,
		"total":     total,
		"page":      max(filter.Page, 1),
		"page_size": h.pageSize,
	})
}

func (h *CatalogHandler) ProductDetail(c *gin.Context) {
	product, related, err := h.svc.ProductDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to load product", "slug", c.Param("slug"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	response.Success(c, gin.H{
		"product":          product,
		"discount_percent": product.DiscountPercent(),
		"related_products": related,
	})
}
