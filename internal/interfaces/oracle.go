package interfaces

import (
	"context"

	"smart-send/internal/role"
	"smart-send/internal/types"
)

// Provider sends one completion request to a model API.
type Provider interface {
	Complete(ctx context.Context, req types.CompletionRequest) (string, error)
}

// Oracle runs a prompt under a role and returns the model's text.
type Oracle interface {
	Run(ctx context.Context, r *role.Config, prompt string) (string, error)
}
