package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/validation"
)

// OrderCommander defines the write-side operations used by OrderHandler.
type OrderCommander interface {
	CreateOrder(context.Context, cqrs.CreateOrderCommand) (*models.Order, error)
	UpdateOrder(context.Context, cqrs.UpdateOrderCommand) (*models.Order, error)
	DeleteOrder(context.Context, cqrs.DeleteOrderCommand) error
}

// OrderQuerier defines the read-side operations used by OrderHandler.
type OrderQuerier interface {
	GetOrder(context.Context, cqrs.GetOrderQuery) (*models.Order, error)
	ListOrders(context.Context, cqrs.ListOrdersQuery) (*models.Page[*models.Order], error)
	ListUserOrders(context.Context, cqrs.ListUserOrdersQuery) (*models.Page[*models.Order], error)
}

type OrderHandler struct {
	commands OrderCommander
	queries  OrderQuerier
}

type UpdateOrderRequest struct {
	Status          *string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
	ShippingAddress *string `json:"shippingAddress"`
	Notes           *string `json:"notes"`
}

func NewOrderHandler(commands OrderCommander, queries OrderQuerier) *OrderHandler {
	return &OrderHandler{commands: commands, queries: queries}
}

// CreateOrder places the order for the userId in the body, or for the
// caller when the body names none.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req contracts.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, apperr.Validation("Invalid request data", nil))
		return
	}
	if req.UserID == "" {
		req.UserID, _ = middleware.GetUserID(c)
	}
	if err := validation.Check(req); err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	o, err := h.commands.CreateOrder(c.Request.Context(), createCommand(req))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondCreated(c, "Order created successfully", o)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	skip, take := middleware.Pagination(c)
	page, err := h.queries.ListOrders(c.Request.Context(), cqrs.ListOrdersQuery{
		PageQuery: cqrs.PageQuery{Skip: skip, Take: take},
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Orders retrieved successfully", page)
}

func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	skip, take := middleware.Pagination(c)
	page, err := h.queries.ListUserOrders(c.Request.Context(), cqrs.ListUserOrdersQuery{
		UserID:    c.Param("userId"),
		PageQuery: cqrs.PageQuery{Skip: skip, Take: take},
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Orders retrieved successfully", page)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.queries.GetOrder(c.Request.Context(), cqrs.GetOrderQuery{OrderID: c.Param("id")})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Order retrieved successfully", o)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	o, err := h.commands.UpdateOrder(c.Request.Context(), cqrs.UpdateOrderCommand{
		OrderID:         c.Param("id"),
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Order updated successfully", o)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.commands.DeleteOrder(c.Request.Context(), cqrs.DeleteOrderCommand{OrderID: c.Param("id")}); err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Order deleted successfully", nil)
}

// Routes mounts the handlers under /orders, all behind auth.
func (h *OrderHandler) Routes(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/orders", auth)
	g.POST("", h.CreateOrder)
	g.GET("", h.ListOrders)
	g.GET("/user/:userId", h.ListUserOrders)
	g.GET("/:id", h.GetOrder)
	g.PUT("/:id", h.UpdateOrder)
	g.DELETE("/:id", h.DeleteOrder)
}

func createCommand(req contracts.CreateOrderRequest) cqrs.CreateOrderCommand {
	return cqrs.CreateOrderCommand{
		UserID:          req.UserID,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
}
