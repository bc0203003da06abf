package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/session"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
)

// AuthServicer defines the operations used by AuthHandler.
type AuthServicer interface {
	Register(ctx context.Context, username, email, password string) (*session.Issued, error)
	Login(ctx context.Context, identifier, password string) (*session.Issued, error)
	CreateSession(ctx context.Context, p session.Profile) (*session.Issued, error)
	Verify(ctx context.Context, token string) (*session.Verification, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	auth AuthServicer
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest accepts a username or an email in the username field.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateSessionRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

func NewAuthHandler(auth AuthServicer) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	issued, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issued)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	issued, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, issued)
}

func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	issued, err := h.auth.CreateSession(c.Request.Context(), session.Profile{
		ID:       req.UserID,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issued)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}
	v, err := h.auth.Verify(c.Request.Context(), req.Token)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Logout revokes the bearer token's session. A request without a token is
// answered with 200 and a message rather than an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "No token provided"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Auth Service is running"})
}

// Routes mounts the handlers under /auth.
func (h *AuthHandler) Routes(r gin.IRouter) {
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/create-session", h.CreateSession)
	g.POST("/verify", h.Verify)
	g.POST("/logout", h.Logout)
	g.GET("/health", h.Health)
}
