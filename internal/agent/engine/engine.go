// Package engine drives one user request through the model: it sends the
// conversation plus tool declarations, executes any tool calls the model
// emits, feeds the results back, and repeats until the model answers in
// plain text. One engine serves any number of concurrent sessions; the only
// shared mutable state lives behind the tools' store.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/model"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tooling"
	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
)

const DefaultMaxRoundTrips = 10

// Config bounds one turn's cost and latency.
type Config struct {
	// MaxRoundTrips caps model calls per turn. Zero means the default.
	MaxRoundTrips int
	// ModelTimeout bounds each individual model call. Zero disables it.
	ModelTimeout time.Duration
	// Streaming consumes model output as a fragment stream, forwarding
	// content deltas to the observer before the message completes.
	Streaming bool
	// ModelName is used for usage-cost accounting only.
	ModelName string
}

// Engine runs turns against a tool-bound chat model.
type Engine struct {
	chatModel einomodel.BaseChatModel
	registry  *tooling.Registry
	cfg       Config
	obs       Observer
}

// TurnResult carries everything appended to the conversation during one
// turn: the user message, model messages, and one tool-result message per
// tool-invocation request, in order.
type TurnResult struct {
	Final      string
	Messages   []*schema.Message
	RoundTrips int
	CostUSD    float64
}

// New binds the registry's tool declarations to the chat model and returns
// an engine ready to run turns.
func New(chatModel einomodel.ToolCallingChatModel, registry *tooling.Registry, cfg Config, obs Observer) (*Engine, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	if obs == nil {
		obs = NopObserver{}
	}
	if cfg.MaxRoundTrips <= 0 {
		cfg.MaxRoundTrips = DefaultMaxRoundTrips
	}

	bound := einomodel.BaseChatModel(chatModel)
	if infos := registry.ToolInfos(); len(infos) > 0 {
		withTools, err := chatModel.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("bind tools to chat model: %w", err)
		}
		bound = withTools
	}

	return &Engine{
		chatModel: bound,
		registry:  registry,
		cfg:       cfg,
		obs:       obs,
	}, nil
}

// RunTurn appends the user message to the given history and loops until the
// model produces a final text answer. Tool-invocation requests are executed
// in the order the model emitted them, with exactly one tool-result message
// appended per request before the next model call. Engine-level failures
// (timeout, round-trip budget, cancellation) end the turn without a final
// answer; tool-level failures are fed back to the model in-band.
func (e *Engine) RunTurn(ctx context.Context, history []*schema.Message, userText string) (*TurnResult, error) {
	user := schema.UserMessage(userText)
	convo := make([]*schema.Message, 0, len(history)+1)
	convo = append(convo, history...)
	convo = append(convo, user)

	result := &TurnResult{Messages: []*schema.Message{user}}
	callIDSeq := 0

	for {
		if err := ctx.Err(); err != nil {
			e.obs.OnTurnError(err)
			return nil, err
		}
		if result.RoundTrips >= e.cfg.MaxRoundTrips {
			err := fmt.Errorf("%w (limit %d)", ErrMaxRoundTrips, e.cfg.MaxRoundTrips)
			e.obs.OnTurnError(err)
			return nil, err
		}
		result.RoundTrips++

		out, err := e.callModel(ctx, convo)
		if err != nil {
			e.obs.OnTurnError(err)
			return nil, err
		}

		e.accountUsage(out, result)

		// Some providers omit tool call ids; synthesize them so results
		// can be correlated.
		for i := range out.ToolCalls {
			if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
				callIDSeq++
				out.ToolCalls[i].ID = fmt.Sprintf("call_%d", callIDSeq)
			}
		}

		convo = append(convo, out)
		result.Messages = append(result.Messages, out)

		if len(out.ToolCalls) == 0 {
			result.Final = out.Content
			e.obs.OnFinal(out.Content)
			logx.Debug().Int("round_trips", result.RoundTrips).Msg("turn complete")
			return result, nil
		}

		logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("executing tool calls")
		for _, call := range out.ToolCalls {
			msg := e.executeToolCall(ctx, call)
			convo = append(convo, msg)
			result.Messages = append(result.Messages, msg)
		}
	}
}

// executeToolCall invokes one tool and always produces a tool-result
// message: registry and state errors become error-shaped payloads the model
// can read and react to.
func (e *Engine) executeToolCall(ctx context.Context, call schema.ToolCall) *schema.Message {
	name := call.Function.Name
	e.obs.OnToolCall(name, call.Function.Arguments)

	content, err := e.registry.InvokeJSON(ctx, name, call.Function.Arguments)
	isError := err != nil
	if isError {
		logx.Warn().Str("tool", name).Err(err).Msg("tool call failed")
		content = toolErrorPayload(name, err)
	}

	e.obs.OnToolResult(name, content, isError)
	return schema.ToolMessage(content, call.ID, schema.WithToolName(name))
}

// callModel performs one bounded model round-trip, streaming if configured.
func (e *Engine) callModel(ctx context.Context, convo []*schema.Message) (*schema.Message, error) {
	mctx := ctx
	if e.cfg.ModelTimeout > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, e.cfg.ModelTimeout)
		defer cancel()
	}

	var out *schema.Message
	var err error
	if e.cfg.Streaming {
		out, err = e.streamModel(mctx, convo)
	} else {
		out, err = e.chatModel.Generate(mctx, convo)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %s: %v", ErrModelTimeout, e.cfg.ModelTimeout, err)
		}
		return nil, fmt.Errorf("model call: %w", err)
	}
	if out == nil {
		return nil, errors.New("model returned a nil message")
	}
	return out, nil
}

// streamModel consumes the model's fragment stream, forwarding content
// deltas to the observer, and concatenates the fragments into one message.
// Dropping the reader (Close) is the cancellation path.
func (e *Engine) streamModel(ctx context.Context, convo []*schema.Message) (*schema.Message, error) {
	reader, err := e.chatModel.Stream(ctx, convo)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		chunk, recvErr := reader.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		if chunk.Content != "" {
			e.obs.OnModelDelta(chunk.Content)
		}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return nil, errors.New("model stream produced no fragments")
	}
	return schema.ConcatMessages(chunks)
}

// accountUsage logs token usage and accumulates USD cost when the provider
// reports usage metadata.
func (e *Engine) accountUsage(out *schema.Message, result *TurnResult) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	pricing := model.ResolvePricing(e.cfg.ModelName)
	inC, outC, totalC := model.ComputeCost(usage, pricing)
	result.CostUSD += totalC

	logx.Debug().
		Str("model", e.cfg.ModelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", result.CostUSD).
		Msg("LLM usage")
}

// toolErrorPayload turns registry-level failures into the structured
// error result the model sees in place of a normal tool result.
func toolErrorPayload(name string, err error) string {
	kind := "tool_execution"
	var invalidArgs *tooling.InvalidArgumentsError
	switch {
	case errors.Is(err, tooling.ErrUnknownTool):
		kind = "unknown_tool"
	case errors.As(err, &invalidArgs):
		kind = "invalid_arguments"
	}

	b, marshalErr := json.Marshal(map[string]string{
		"error":   kind,
		"tool":    name,
		"message": err.Error(),
	})
	if marshalErr != nil {
		return fmt.Sprintf(`{"error":%q,"tool":%q}`, kind, name)
	}
	return string(b)
}
