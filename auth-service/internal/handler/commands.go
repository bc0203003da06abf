package handler

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/session"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

// RegisterCommands exposes session verification, revocation and internal
// session issuance to the other services.
func (h *AuthHandler) RegisterCommands(r *rpc.Router) {
	r.Handle(contracts.VerifyToken, rpc.Typed(func(ctx context.Context, req contracts.TokenRequest) (*session.Verification, error) {
		return h.auth.Verify(ctx, req.Token)
	}))
	r.Handle(contracts.RevokeSession, rpc.Typed(func(ctx context.Context, req contracts.TokenRequest) (map[string]string, error) {
		if err := h.auth.Logout(ctx, req.Token); err != nil {
			return nil, err
		}
		return map[string]string{"message": "Logged out successfully"}, nil
	}))
	r.Handle(contracts.CreateSession, rpc.Typed(func(ctx context.Context, req contracts.SessionRequest) (*session.Issued, error) {
		return h.auth.CreateSession(ctx, session.Profile{ID: req.UserID, Username: req.Username, Email: req.Email})
	}))
}
