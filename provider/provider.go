// Package provider defines the abstract LLM backend contract that every
// wire adapter satisfies, and the string-keyed factory that constructs one
// from a kind name and options.
package provider

import (
	"context"
	"time"

	"github.com/parthshr370/agentrt/message"
)

// Provider is the contract the agent loop drives. chat is network-blocking
// and may fail with a ProviderError-wrapped cause; implementations must
// accept an empty or nil functions slice and simply omit a tools field from
// the wire request.
type Provider interface {
	Chat(ctx context.Context, history []message.Message, functions []message.FunctionSpec, temperature float64, extras map[string]any) (message.Response, error)
	SupportsFunctionCalling() bool
	ModelName() string
}

// Options configures a provider constructed through the factory.
//
//   - APIKey: required for hosted providers.
//   - Model: provider-specific identifier; empty uses the provider's default.
//   - BaseURL: override for self-hosted or alternate endpoints.
//   - Timeout: defaults to 60s when zero.
//   - MaxTokens: defaults to 2048 (Claude), 4096 (MiniMax) when zero.
//   - Temperature: default applied by the agent loop at call time (0.1), not here.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}
