package cqrs

import "github.com/Nirob844/mini-e-commerce-microservices/shared/models"

type CreateUserCommand struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// UpdateUserCommand leaves nil fields untouched.
type UpdateUserCommand struct {
	UserID           string
	RequestingUserID string
	FirstName        *string
	LastName         *string
	Phone            *string
}

type DeleteUserCommand struct {
	UserID           string
	RequestingUserID string
}

// ValidateUserCommand checks a password against the user found by email or
// username. Email wins when both are set.
type ValidateUserCommand struct {
	Username string
	Email    string
	Password string
}

type CreateProductCommand struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	SKU         string
	Category    string
}

type UpdateProductCommand struct {
	ProductID   string
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	SKU         *string
	Category    *string
}

type DeleteProductCommand struct {
	ProductID string
}

type ReduceStockCommand struct {
	ProductID string
	Quantity  int
}

type CreateOrderCommand struct {
	UserID          string
	Items           []models.OrderItem
	ShippingAddress string
	Notes           string
}

type UpdateOrderCommand struct {
	OrderID         string
	Status          *string
	ShippingAddress *string
	Notes           *string
}

type DeleteOrderCommand struct {
	OrderID string
}

type CreatePaymentCommand struct {
	OrderID       string
	Amount        float64
	PaymentMethod string
	TransactionID string
}

type UpdatePaymentCommand struct {
	PaymentID     string
	Status        *string
	TransactionID *string
	Notes         *string
}

type DeletePaymentCommand struct {
	PaymentID string
}

// ProcessPaymentCommand settles an order immediately.
type ProcessPaymentCommand struct {
	OrderID       string
	Amount        float64
	PaymentMethod string
}
