package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/parthshr370/agentrt/agent"
	"github.com/parthshr370/agentrt/examples/demotools"
	"github.com/parthshr370/agentrt/internal/config"
	"github.com/parthshr370/agentrt/internal/logging"
	"github.com/parthshr370/agentrt/provider"
	"github.com/parthshr370/agentrt/registry"
)

func chatCmd() *cobra.Command {
	var kind, model, systemPrompt, providerSetPath, providerSetName string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session with a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startChat(cmd.Context(), kind, model, systemPrompt, providerSetPath, providerSetName)
		},
	}

	cmd.Flags().StringVar(&kind, "provider", "openai", "provider kind: openai, claude, anthropic, minimax, open_source, custom")
	cmd.Flags().StringVar(&model, "model", "", "model identifier override")
	cmd.Flags().StringVar(&systemPrompt, "system", "", "system prompt")
	cmd.Flags().StringVar(&providerSetPath, "provider-set", "", "path to a YAML provider-set file (overrides --provider/--model when given)")
	cmd.Flags().StringVar(&providerSetName, "provider-name", "", "entry name to use from --provider-set")
	return cmd
}

func startChat(ctx context.Context, kind, model, systemPrompt, providerSetPath, providerSetName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("agentctl: %w", err)
	}
	_ = logging.Initialize(logging.Config{Type: "console", Level: cfg.LogLevel})

	p, temperature, err := resolveProvider(cfg, kind, model, providerSetPath, providerSetName)
	if err != nil {
		return fmt.Errorf("agentctl: %w", err)
	}

	reg := registry.New()
	demotools.RegisterAll(reg)

	a := agent.New(p,
		agent.WithSystemPrompt(systemPrompt),
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithRegistry(reg),
		agent.WithTemperature(temperature))

	color.New(color.Bold).Println("agentctl chat — type 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nyou> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "exit" {
			break
		}
		if input == "" {
			continue
		}

		result, err := a.Chat(ctx, input, nil)
		if err != nil {
			color.New(color.FgRed).Printf("error: %v\n", err)
			continue
		}
		color.New(color.FgGreen).Printf("assistant> %s\n", result.Content)
	}

	return scanner.Err()
}

func apiKeyForKind(kind string, cfg *config.Config) string {
	switch kind {
	case "claude", "anthropic":
		return cfg.AnthropicAPIKey
	case "minimax":
		return cfg.MiniMaxAPIKey
	default:
		return cfg.OpenAIAPIKey
	}
}

// resolveProvider builds a Provider either from a named entry in a
// --provider-set YAML document, or from the flat --provider/--model flags
// when no provider set is given, alongside the temperature the agent loop
// should sample at (the provider set's per-entry override, or the
// process-wide default).
func resolveProvider(cfg *config.Config, kind, model, providerSetPath, providerSetName string) (provider.Provider, float64, error) {
	if providerSetPath == "" {
		p, err := provider.Create(kind, provider.Options{APIKey: apiKeyForKind(kind, cfg), Model: model, Timeout: cfg.RequestTimeout})
		return p, cfg.DefaultTemperature, err
	}

	set, err := config.LoadProviderSet(providerSetPath)
	if err != nil {
		return nil, 0, err
	}
	if providerSetName == "" {
		return nil, 0, fmt.Errorf("--provider-name is required when --provider-set is given")
	}
	entry, ok := set.Lookup(providerSetName)
	if !ok {
		return nil, 0, fmt.Errorf("provider set %s has no entry named %q", providerSetPath, providerSetName)
	}

	apiKey := apiKeyForKind(entry.Kind, cfg)
	if entry.APIKeyEnv != "" {
		if fromEnv := os.Getenv(entry.APIKeyEnv); fromEnv != "" {
			apiKey = fromEnv
		}
	}
	temperature := cfg.DefaultTemperature
	if entry.Temperature != nil {
		temperature = *entry.Temperature
	}

	p, err := provider.Create(entry.Kind, provider.Options{
		APIKey:  apiKey,
		Model:   entry.Model,
		BaseURL: entry.BaseURL,
		Timeout: cfg.RequestTimeout,
	})
	return p, temperature, err
}
