// Package anthropic implements the Anthropic-style wire adapter, shared by
// the Claude and MiniMax variants. The protocol differs from the flat
// OpenAI shape on three axes this adapter bridges: the system prompt is a
// top-level field rather than a role, assistant replies are typed content
// blocks (text, thinking, tool_use) rather than a string, and tool results
// travel as tool_result blocks inside a user turn. Assistant replies are
// captured verbatim as Response.RawBlocks and replayed from
// Message.ProviderExtras on later turns — the API requires the exact
// thinking and tool_use blocks back for chain-of-thought continuity
// across tool rounds.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parthshr370/agentrt/internal/agenterr"
	"github.com/parthshr370/agentrt/internal/logging"
	"github.com/parthshr370/agentrt/message"
)

// anthropicVariant parameterizes the shared adapter by what differs between
// Claude and MiniMax: base URL, default model, default max_tokens, and
// whether the anthropic-version header is sent.
type anthropicVariant struct {
	name             string
	defaultBaseURL   string
	defaultModel     string
	defaultMaxTokens int
	apiVersionHeader bool // Claude sends anthropic-version; MiniMax's gateway does not require it
}

var claudeVariant = anthropicVariant{
	name:             "claude",
	defaultBaseURL:   "https://api.anthropic.com",
	defaultModel:     "claude-sonnet-4-5",
	defaultMaxTokens: 2048,
	apiVersionHeader: true,
}

var miniMaxVariant = anthropicVariant{
	name:             "minimax",
	defaultBaseURL:   "https://api.minimaxi.com/anthropic",
	defaultModel:     "MiniMax-M2",
	defaultMaxTokens: 4096,
	apiVersionHeader: false,
}

// Client is the Anthropic-style provider, shared by the Claude and MiniMax
// variants.
type Client struct {
	variant    anthropicVariant
	apiKey     string
	model      string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
	logger     logging.Logger
}

func newClient(v anthropicVariant, apiKey, model string, timeout time.Duration, maxTokens int) *Client {
	if model == "" {
		model = v.defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = v.defaultMaxTokens
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		variant:    v,
		apiKey:     apiKey,
		model:      model,
		baseURL:    v.defaultBaseURL,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.GetLogger("provider.anthropic." + v.name),
	}
}

// NewClaude builds the vanilla Claude variant of the Anthropic adapter.
func NewClaude(apiKey, model string, timeout time.Duration, maxTokens int) *Client {
	return newClient(claudeVariant, apiKey, model, timeout, maxTokens)
}

// NewMiniMax builds the MiniMax variant — different base URL and a larger
// default max_tokens, otherwise identical logic.
func NewMiniMax(apiKey, model string, timeout time.Duration, maxTokens int) *Client {
	return newClient(miniMaxVariant, apiKey, model, timeout, maxTokens)
}

// WithBaseURL overrides the variant's default endpoint, e.g. to point the
// Claude variant at a private gateway.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

func (c *Client) ModelName() string { return c.model }

func (c *Client) SupportsFunctionCalling() bool { return true }

// encodeRequest merges extras into the marshaled request as additional
// top-level fields, letting callers pass provider-specific knobs
// (top_p, stop_sequences, metadata, …) without widening the wire structs.
func encodeRequest(req wireRequest, extras map[string]any) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil || len(extras) == 0 {
		return body, err
	}
	var merged map[string]any
	if err := json.Unmarshal(body, &merged); err != nil {
		return nil, err
	}
	for k, v := range extras {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Chat implements provider.Provider.
func (c *Client) Chat(ctx context.Context, history []message.Message, functions []message.FunctionSpec, temperature float64, extras map[string]any) (message.Response, error) {
	system, messages := buildMessages(ctx, history, c.logger)

	req := wireRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      system,
		Messages:    messages,
		Tools:       translateTools(functions),
		Temperature: temperature,
	}

	body, err := encodeRequest(req, extras)
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, c.variant.name, fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, c.variant.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	if c.variant.apiVersionHeader {
		httpReq.Header.Set("anthropic-version", "2023-06-01")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, c.variant.name, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, c.variant.name, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, c.variant.name, fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var wresp wireResponse
	if err := json.Unmarshal(respBody, &wresp); err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, c.variant.name, fmt.Errorf("decode response: %w", err))
	}

	response := decodeResponse(wresp)
	if err := response.ValidateNonEmpty(); err != nil {
		return message.Response{}, agenterr.New(agenterr.ErrProvider, c.variant.name, err)
	}
	return response, nil
}
