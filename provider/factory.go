package provider

import (
	"fmt"

	"github.com/parthshr370/agentrt/internal/agenterr"
	"github.com/parthshr370/agentrt/provider/anthropic"
	"github.com/parthshr370/agentrt/provider/openai"
)

// Create is the string-keyed provider constructor. The alias table:
//
//	openai                  → OpenAI adapter
//	claude, anthropic       → Claude variant of the Anthropic adapter
//	minimax                 → MiniMax variant of the Anthropic adapter
//	open_source, custom     → OpenAI-compatible adapter at opts.BaseURL
//
// An unknown kind is a configuration error, fatal at setup.
func Create(kind string, opts Options) (Provider, error) {
	switch kind {
	case "openai":
		return openai.New(opts.APIKey, opts.Model, opts.BaseURL, opts.Timeout, opts.MaxTokens), nil
	case "claude", "anthropic":
		return anthropic.NewClaude(opts.APIKey, opts.Model, opts.Timeout, opts.MaxTokens), nil
	case "minimax":
		return anthropic.NewMiniMax(opts.APIKey, opts.Model, opts.Timeout, opts.MaxTokens), nil
	case "open_source", "custom":
		if opts.BaseURL == "" {
			return nil, agenterr.New(agenterr.ErrConfiguration, kind, fmt.Errorf("base_url is required for the %q provider kind", kind))
		}
		return openai.New(opts.APIKey, opts.Model, opts.BaseURL, opts.Timeout, opts.MaxTokens), nil
	default:
		return nil, agenterr.New(agenterr.ErrConfiguration, kind, fmt.Errorf("unknown provider kind %q", kind))
	}
}
