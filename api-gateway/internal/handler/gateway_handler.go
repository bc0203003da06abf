package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/validation"
)

// DefaultHealthTimeout bounds each service health check made by Health.
const DefaultHealthTimeout = time.Second

// monitored lists the services reported by Health, in display order.
var monitored = []string{config.User, config.Product, config.Order, config.Payment, config.Auth}

// Dispatcher is the subset of rpc.Dispatcher used by the gateway.
type Dispatcher interface {
	Dispatch(ctx context.Context, service, command string, payload any, timeout time.Duration) (json.RawMessage, error)
}

// GatewayHandler turns HTTP requests into commands on the service queues.
type GatewayHandler struct {
	dispatcher    Dispatcher
	healthTimeout time.Duration
	now           func() time.Time
}

type ReduceStockBody struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

func NewGatewayHandler(dispatcher Dispatcher, healthTimeout time.Duration) *GatewayHandler {
	if healthTimeout <= 0 {
		healthTimeout = DefaultHealthTimeout
	}
	return &GatewayHandler{
		dispatcher:    dispatcher,
		healthTimeout: healthTimeout,
		now:           time.Now,
	}
}

// Health checks every service concurrently. It answers 503 when any of them
// does not reply in time.
func (h *GatewayHandler) Health(c *gin.Context) {
	states := make([]string, len(monitored))
	g, ctx := errgroup.WithContext(c.Request.Context())
	for i, svc := range monitored {
		g.Go(func() error {
			states[i] = "connected"
			if _, err := h.dispatcher.Dispatch(ctx, svc, rpc.HealthCommand, nil, h.healthTimeout); err != nil {
				states[i] = "disconnected"
			}
			return nil
		})
	}
	_ = g.Wait()

	services := gin.H{"gateway": "running"}
	status, code := "healthy", http.StatusOK
	for i, svc := range monitored {
		services[svc+"Service"] = states[i]
		if states[i] != "connected" {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"services":  services,
	})
}

func (h *GatewayHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Mini E-Commerce Microservices",
		"version":     "1.0.0",
		"description": "E-commerce backend over a command broker",
		"services": []gin.H{
			{"name": "User Service", "path": "/api/users", "port": 3001},
			{"name": "Product Service", "path": "/api/products", "port": 3002},
			{"name": "Order Service", "path": "/api/orders", "port": 3003},
			{"name": "Payment Service", "path": "/api/payments", "port": 3004},
			{"name": "Auth Service", "path": "/api/auth", "port": 3005},
		},
	})
}

func (h *GatewayHandler) GetUser(c *gin.Context) {
	h.forward(c, http.StatusOK, config.User, contracts.GetUser,
		contracts.IDRequest{ID: c.Param("id")}, "User retrieved successfully")
}

// GetUserOrders only lists the caller's own orders.
func (h *GatewayHandler) GetUserOrders(c *gin.Context) {
	userID := c.Param("id")
	if caller, _ := middleware.GetUserID(c); caller != userID {
		middleware.RespondWithError(c, apperr.Forbidden("You can only view your own orders"))
		return
	}
	skip, take := middleware.Pagination(c)
	h.forward(c, http.StatusOK, config.Order, contracts.GetUserOrders,
		contracts.UserOrdersRequest{UserID: userID, Skip: skip, Take: take}, "Orders retrieved successfully")
}

func (h *GatewayHandler) GetProduct(c *gin.Context) {
	h.forward(c, http.StatusOK, config.Product, contracts.GetProduct,
		contracts.IDRequest{ID: c.Param("id")}, "Product retrieved successfully")
}

func (h *GatewayHandler) ReduceStock(c *gin.Context) {
	var body ReduceStockBody
	if !middleware.BindAndValidate(c, &body) {
		return
	}
	h.forward(c, http.StatusOK, config.Product, contracts.ReduceStock,
		contracts.ReduceStockRequest{ProductID: c.Param("id"), Quantity: body.Quantity}, "Stock reduced successfully")
}

// CreateOrder always places the order for the authenticated user.
func (h *GatewayHandler) CreateOrder(c *gin.Context) {
	var req contracts.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, apperr.Validation("Invalid request data", nil))
		return
	}
	req.UserID, _ = middleware.GetUserID(c)
	if err := validation.Check(req); err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	h.forward(c, http.StatusCreated, config.Order, contracts.CreateOrder, req, "Order created successfully")
}

func (h *GatewayHandler) GetOrder(c *gin.Context) {
	h.forward(c, http.StatusOK, config.Order, contracts.GetOrder,
		contracts.IDRequest{ID: c.Param("id")}, "Order retrieved successfully")
}

func (h *GatewayHandler) GetOrderPayment(c *gin.Context) {
	h.forward(c, http.StatusOK, config.Payment, contracts.GetPaymentByOrder,
		contracts.OrderIDRequest{OrderID: c.Param("id")}, "Payment retrieved successfully")
}

func (h *GatewayHandler) ProcessPayment(c *gin.Context) {
	var req contracts.ProcessPaymentRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	h.forward(c, http.StatusCreated, config.Payment, contracts.ProcessPayment, req, "Payment processed successfully")
}

func (h *GatewayHandler) GetPayment(c *gin.Context) {
	h.forward(c, http.StatusOK, config.Payment, contracts.GetPayment,
		contracts.IDRequest{ID: c.Param("id")}, "Payment retrieved successfully")
}

// forward dispatches one command and renders its reply data inside the
// success envelope.
func (h *GatewayHandler) forward(c *gin.Context, status int, service, command string, payload any, message string) {
	data, err := h.dispatcher.Dispatch(c.Request.Context(), service, command, payload, 0)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.Respond(c, status, message, data)
}

// Routes mounts the gateway under /api. authProxy serves the public part of
// the auth service; create-session stays reachable only from inside.
func (h *GatewayHandler) Routes(r gin.IRouter, auth, authProxy gin.HandlerFunc) {
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/info", h.Info)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authProxy)
	authGroup.POST("/login", authProxy)
	authGroup.POST("/verify", authProxy)
	authGroup.POST("/logout", authProxy)
	authGroup.GET("/health", authProxy)

	api.GET("/products/:id", h.GetProduct)

	secured := api.Group("", auth)
	secured.GET("/users/:id", h.GetUser)
	secured.GET("/users/:id/orders", h.GetUserOrders)
	secured.POST("/products/:id/reduce-stock", h.ReduceStock)
	secured.POST("/orders", h.CreateOrder)
	secured.GET("/orders/:id", h.GetOrder)
	secured.GET("/orders/:id/payment", h.GetOrderPayment)
	secured.POST("/payments", h.ProcessPayment)
	secured.GET("/payments/:id", h.GetPayment)
}
