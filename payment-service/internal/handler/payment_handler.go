package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// PaymentCommander defines the write-side operations used by PaymentHandler.
type PaymentCommander interface {
	CreatePayment(context.Context, cqrs.CreatePaymentCommand) (*models.Payment, error)
	ProcessPayment(context.Context, cqrs.ProcessPaymentCommand) (*models.Payment, error)
	UpdatePayment(context.Context, cqrs.UpdatePaymentCommand) (*models.Payment, error)
	DeletePayment(context.Context, cqrs.DeletePaymentCommand) error
}

// PaymentQuerier defines the read-side operations used by PaymentHandler.
type PaymentQuerier interface {
	GetPayment(context.Context, cqrs.GetPaymentQuery) (*models.Payment, error)
	GetPaymentByOrder(context.Context, cqrs.GetPaymentByOrderQuery) (*models.Payment, error)
	ListPayments(context.Context, cqrs.ListPaymentsQuery) (*models.Page[*models.Payment], error)
}

type PaymentHandler struct {
	commands PaymentCommander
	queries  PaymentQuerier
}

type CreatePaymentRequest struct {
	OrderID       string   `json:"orderId" validate:"required"`
	Amount        *float64 `json:"amount" validate:"required,gte=0"`
	PaymentMethod string   `json:"paymentMethod" validate:"required"`
	TransactionID string   `json:"transactionId"`
}

type UpdatePaymentRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=PENDING SUCCESS FAILED REFUNDED"`
	TransactionID *string `json:"transactionId"`
	Notes         *string `json:"notes"`
}

func NewPaymentHandler(commands PaymentCommander, queries PaymentQuerier) *PaymentHandler {
	return &PaymentHandler{commands: commands, queries: queries}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	p, err := h.commands.CreatePayment(c.Request.Context(), cqrs.CreatePaymentCommand{
		OrderID:       req.OrderID,
		Amount:        *req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondCreated(c, "Payment created successfully", p)
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	skip, take := middleware.Pagination(c)
	page, err := h.queries.ListPayments(c.Request.Context(), cqrs.ListPaymentsQuery{
		PageQuery: cqrs.PageQuery{Skip: skip, Take: take},
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Payments retrieved successfully", page)
}

func (h *PaymentHandler) GetPaymentByOrder(c *gin.Context) {
	p, err := h.queries.GetPaymentByOrder(c.Request.Context(), cqrs.GetPaymentByOrderQuery{OrderID: c.Param("orderId")})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Payment retrieved successfully", p)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.queries.GetPayment(c.Request.Context(), cqrs.GetPaymentQuery{PaymentID: c.Param("id")})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Payment retrieved successfully", p)
}

func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	var req UpdatePaymentRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	p, err := h.commands.UpdatePayment(c.Request.Context(), cqrs.UpdatePaymentCommand{
		PaymentID:     c.Param("id"),
		Status:        req.Status,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Payment updated successfully", p)
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.commands.DeletePayment(c.Request.Context(), cqrs.DeletePaymentCommand{PaymentID: c.Param("id")}); err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Payment deleted successfully", nil)
}

// Routes mounts the handlers under /payments, all behind auth.
func (h *PaymentHandler) Routes(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/payments", auth)
	g.POST("", h.CreatePayment)
	g.GET("", h.ListPayments)
	g.GET("/order/:orderId", h.GetPaymentByOrder)
	g.GET("/:id", h.GetPayment)
	g.PUT("/:id", h.UpdatePayment)
	g.DELETE("/:id", h.DeletePayment)
}
