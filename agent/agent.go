// Package agent implements the dialogue loop: it owns conversation
// history, drives the provider round trip and sequential tool execution
// for each user turn, and enforces the iteration cap that bounds runaway
// tool-use loops.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/parthshr370/agentrt/executor"
	"github.com/parthshr370/agentrt/internal/agenterr"
	"github.com/parthshr370/agentrt/internal/logging"
	"github.com/parthshr370/agentrt/message"
	"github.com/parthshr370/agentrt/provider"
	"github.com/parthshr370/agentrt/registry"
)

var (
	iterationsHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "agent_chat_iterations",
		Help:    "Number of provider round trips a single Agent.Chat call took.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
	toolLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agent_tool_execution_seconds",
		Help:    "Wall-clock time spent executing a single tool call.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)

func init() {
	prometheus.MustRegister(iterationsHistogram, toolLatencySeconds)
}

const defaultMaxIterations = 10
const defaultTemperature = 0.1

// Result is what Chat returns: the final text, the ordered trace of tool
// calls issued across every iteration, and how many provider round trips
// the turn took.
type Result struct {
	Content        string
	ToolCallsTrace []message.ToolCall
	Iterations     int
}

// Agent owns a provider, a function registry, an executor bound to that
// registry, and conversation history.
type Agent struct {
	provider      provider.Provider
	registry      *registry.Registry
	executor      *executor.Executor
	history       *history
	maxIterations int
	temperature   float64
	logger        logging.Logger
}

// Option configures an Agent at construction.
type Option func(*Agent)

// WithSystemPrompt seeds history with a system message.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.history = newHistory(prompt) }
}

// WithRegistry attaches a pre-built registry instead of an empty one.
func WithRegistry(reg *registry.Registry) Option {
	return func(a *Agent) {
		a.registry = reg
		a.executor = executor.New(reg)
	}
}

// WithMaxIterations overrides the default iteration cap of 10.
func WithMaxIterations(n int) Option {
	return func(a *Agent) { a.maxIterations = n }
}

// WithTemperature overrides the default sampling temperature of 0.1.
func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

// New builds an Agent bound to provider p.
func New(p provider.Provider, opts ...Option) *Agent {
	a := &Agent{
		provider:      p,
		registry:      registry.New(),
		maxIterations: defaultMaxIterations,
		temperature:   defaultTemperature,
		logger:        logging.GetLogger("agent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.history == nil {
		a.history = newHistory("")
	}
	if a.executor == nil {
		a.executor = executor.New(a.registry)
	}
	return a
}

// RegisterFunction is a convenience forwarder to the underlying registry.
func (a *Agent) RegisterFunction(name, description string, fn any, parameters map[string]any) error {
	return registry.Register(a.registry, name, description, fn, parameters)
}

// ClearHistory resets history to empty, or to the system message alone if
// a system prompt was configured. Idempotent.
func (a *Agent) ClearHistory() {
	a.history.clear()
}

// Prune keeps only the system message (if any) plus the last
// keepLastTurns user-initiated turns; keepLastTurns <= 0 leaves history
// unchanged. Opt-in, never automatic: every past
// assistant turn may still be needed for Anthropic-style block replay, so
// the caller decides when history is safe to drop.
func (a *Agent) Prune(keepLastTurns int) {
	a.history.prune(keepLastTurns)
}

// Chat appends the user turn, then iterates provider calls and sequential
// tool execution until the reply carries no more tool calls or the
// iteration cap is reached.
func (a *Agent) Chat(ctx context.Context, userMessage string, extras map[string]any) (Result, error) {
	// invocationID correlates every log line this call emits across its
	// iterations.
	invocationID := uuid.NewString()

	if userMessage != "" {
		a.history.appendUser(userMessage)
	}

	var trace []message.ToolCall
	var lastResponse message.Response

	for iter := 1; iter <= a.maxIterations; iter++ {
		var functions []message.FunctionSpec
		if a.provider.SupportsFunctionCalling() && a.registry.Len() > 0 {
			functions = a.registry.List()
		}

		resp, err := a.provider.Chat(ctx, a.history.snapshot(), functions, a.temperature, extras)
		if err != nil {
			return Result{}, err
		}
		lastResponse = resp

		a.history.appendAssistant(resp.Content, resp.ToolCalls, resp.RawBlocks)

		if len(resp.ToolCalls) == 0 {
			iterationsHistogram.Observe(float64(iter))
			return Result{Content: resp.Content, ToolCallsTrace: trace, Iterations: iter}, nil
		}

		for _, call := range resp.ToolCalls {
			trace = append(trace, call)

			start := time.Now()
			value, execErr := a.executor.Execute(ctx, call.Name, call.Arguments)
			elapsed := time.Since(start)
			toolLatencySeconds.WithLabelValues(call.Name).Observe(elapsed.Seconds())
			a.logger.Progress(ctx, "tool executed",
				logging.WithName("agent.tool_result"),
				logging.WithData(map[string]interface{}{"invocation_id": invocationID, "tool": call.Name, "duration_ms": elapsed.Milliseconds(), "failed": execErr != nil}))

			var resultText string
			if execErr != nil {
				resultText = "错误: " + execErr.Error()
				a.logger.Warning(ctx, "tool execution failed, reporting error to model",
					logging.WithName("agent.tool_error"),
					logging.WithData(map[string]interface{}{"invocation_id": invocationID, "tool": call.Name, "error": execErr.Error()}))
			} else {
				resultText = a.executor.FormatResult(value)
			}

			if err := a.history.appendTool(call.ID, call.Name, resultText); err != nil {
				return Result{}, fmt.Errorf("agent: %w", err)
			}
		}

		if iter == a.maxIterations {
			a.logger.Warning(ctx, "iteration cap reached, returning partial result",
				logging.WithName("agent.iteration_cap_exceeded"),
				logging.WithData(map[string]interface{}{"invocation_id": invocationID, "max_iterations": a.maxIterations}))
			iterationsHistogram.Observe(float64(iter))
			return Result{Content: lastResponse.Content, ToolCallsTrace: trace, Iterations: iter}, nil
		}
	}

	// Unreachable: the loop above always returns by the time iter reaches
	// maxIterations, but agenterr.ErrConfiguration guards a misconfigured
	// cap of zero or less.
	return Result{}, agenterr.New(agenterr.ErrConfiguration, "max_iterations", fmt.Errorf("must be positive, got %d", a.maxIterations))
}
