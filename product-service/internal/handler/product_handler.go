package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// ProductCommander defines the write-side operations used by ProductHandler.
type ProductCommander interface {
	CreateProduct(context.Context, cqrs.CreateProductCommand) (*models.Product, error)
	UpdateProduct(context.Context, cqrs.UpdateProductCommand) (*models.Product, error)
	DeleteProduct(context.Context, cqrs.DeleteProductCommand) error
	ReduceStock(context.Context, cqrs.ReduceStockCommand) (*models.Product, error)
}

// ProductQuerier defines the read-side operations used by ProductHandler.
type ProductQuerier interface {
	GetProduct(context.Context, cqrs.GetProductQuery) (*models.Product, error)
	ListProducts(context.Context, cqrs.ListProductsQuery) (*models.Page[*models.Product], error)
}

type ProductHandler struct {
	commands ProductCommander
	queries  ProductQuerier
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	SKU         string   `json:"sku"`
	Category    string   `json:"category"`
}

// UpdateProductRequest changes only the fields present in the body.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	SKU         *string  `json:"sku"`
	Category    *string  `json:"category"`
}

func NewProductHandler(commands ProductCommander, queries ProductQuerier) *ProductHandler {
	return &ProductHandler{commands: commands, queries: queries}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	p, err := h.commands.CreateProduct(c.Request.Context(), cqrs.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		SKU:         req.SKU,
		Category:    req.Category,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondCreated(c, "Product created successfully", p)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	skip, take := middleware.Pagination(c)
	page, err := h.queries.ListProducts(c.Request.Context(), cqrs.ListProductsQuery{
		PageQuery: cqrs.PageQuery{Skip: skip, Take: take},
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Products retrieved successfully", page)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.queries.GetProduct(c.Request.Context(), cqrs.GetProductQuery{ProductID: c.Param("id")})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Product retrieved successfully", p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	p, err := h.commands.UpdateProduct(c.Request.Context(), cqrs.UpdateProductCommand{
		ProductID:   c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		SKU:         req.SKU,
		Category:    req.Category,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Product updated successfully", p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.commands.DeleteProduct(c.Request.Context(), cqrs.DeleteProductCommand{ProductID: c.Param("id")}); err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Product deleted successfully", nil)
}

// Routes mounts the handlers under /products, all behind auth.
func (h *ProductHandler) Routes(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/products", auth)
	g.POST("", h.CreateProduct)
	g.GET("", h.ListProducts)
	g.GET("/:id", h.GetProduct)
	g.PUT("/:id", h.UpdateProduct)
	g.DELETE("/:id", h.DeleteProduct)
}
