// Package authclient verifies bearer tokens by asking the auth service over
// the command fabric.
package authclient

import (
	"context"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
)

// Caller is the subset of rpc.Dispatcher used here.
type Caller interface {
	Call(ctx context.Context, service, command string, payload, out any) error
}

// Client implements middleware.TokenVerifier.
type Client struct {
	caller Caller
}

func New(caller Caller) *Client {
	return &Client{caller: caller}
}

func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	var v contracts.Verification
	if err := c.caller.Call(ctx, config.Auth, contracts.VerifyToken, contracts.TokenRequest{Token: token}, &v); err != nil {
		return "", err
	}
	if !v.Valid || v.UserID == "" {
		return "", apperr.InvalidToken("")
	}
	return v.UserID, nil
}

// Revoke ends the session behind token.
func (c *Client) Revoke(ctx context.Context, token string) error {
	return c.caller.Call(ctx, config.Auth, contracts.RevokeSession, contracts.TokenRequest{Token: token}, nil)
}
