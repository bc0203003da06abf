package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	CreateUser(context.Context, cqrs.CreateUserCommand) (*models.UserView, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) (*models.UserView, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
	ValidateUser(context.Context, cqrs.ValidateUserCommand) (*models.UserView, error)
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, error)
	ListUsers(context.Context, cqrs.ListUsersQuery) (*models.Page[*models.UserView], error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

// UpdateUserRequest changes only the fields present in the body.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req contracts.CreateUserRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	view, err := h.commands.CreateUser(c.Request.Context(), createCommand(req))
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondCreated(c, "User created successfully", view)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	skip, take := middleware.Pagination(c)
	page, err := h.queries.ListUsers(c.Request.Context(), cqrs.ListUsersQuery{
		PageQuery: cqrs.PageQuery{Skip: skip, Take: take},
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "Users retrieved successfully", page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: c.Param("id")})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "User retrieved successfully", view)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	requestingUserID, _ := middleware.GetUserID(c)
	view, err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID:           c.Param("id"),
		RequestingUserID: requestingUserID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "User updated successfully", view)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	requestingUserID, _ := middleware.GetUserID(c)
	err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{
		UserID:           c.Param("id"),
		RequestingUserID: requestingUserID,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	middleware.RespondOK(c, "User deleted successfully", nil)
}

// Routes mounts the handlers under /users. Registration is public; the rest
// sits behind auth.
func (h *UserHandler) Routes(r gin.IRouter, auth gin.HandlerFunc) {
	r.POST("/users", h.CreateUser)
	g := r.Group("/users", auth)
	g.GET("", h.ListUsers)
	g.GET("/:id", h.GetUser)
	g.PUT("/:id", h.UpdateUser)
	g.DELETE("/:id", h.DeleteUser)
}

func createCommand(req contracts.CreateUserRequest) cqrs.CreateUserCommand {
	return cqrs.CreateUserCommand{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	}
}
