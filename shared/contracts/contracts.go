// Package contracts lists the commands each service answers and the JSON
// payloads they accept.
package contracts

import "github.com/Nirob844/mini-e-commerce-microservices/shared/models"

// Auth service.
const (
	VerifyToken   = "verify_token"
	RevokeSession = "revoke_session"
	CreateSession = "create_session"
)

// User service.
const (
	GetUser      = "get_user"
	CreateUser   = "create_user"
	ValidateUser = "validate_user"
)

// Product service.
const (
	GetProduct  = "get_product"
	ReduceStock = "reduce_stock"
)

// Order service.
const (
	GetOrder      = "get_order"
	CreateOrder   = "create_order"
	GetUserOrders = "get_user_orders"
)

// Payment service.
const (
	GetPayment        = "get_payment"
	ProcessPayment    = "process_payment"
	GetPaymentByOrder = "get_payment_by_order"
)

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// SessionRequest asks the auth service for a session on behalf of an already
// authenticated user. It is only accepted over the broker.
type SessionRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Verification struct {
	UserID string `json:"userId"`
	Valid  bool   `json:"valid"`
}

// IDRequest addresses one entity by id.
type IDRequest struct {
	ID string `json:"id" validate:"required"`
}

type CreateUserRequest struct {
	Username  string `json:"username,omitempty" validate:"omitempty,min=3"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone,omitempty"`
}

// ValidateUserRequest identifies the user by username or email.
type ValidateUserRequest struct {
	Username string `json:"username,omitempty" validate:"required_without=Email"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type ReduceStockRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type ReduceStockResult struct {
	Success bool `json:"success"`
}

type CreateOrderRequest struct {
	UserID          string             `json:"userId" validate:"required"`
	Items           []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shippingAddress,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

type UserOrdersRequest struct {
	UserID string `json:"userId" validate:"required"`
	Skip   int    `json:"skip,omitempty"`
	Take   int    `json:"take,omitempty"`
}

type ProcessPaymentRequest struct {
	OrderID       string  `json:"orderId" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
}

type OrderIDRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}
