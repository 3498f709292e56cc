package engine

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/engine/enginetest"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/state"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tooling"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tools"
)

// recordingObserver captures presentation events for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	deltas    []string
	toolCalls []string
	results   []string
	errors    []bool
	final     string
	turnErr   error
}

func (o *recordingObserver) OnModelDelta(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deltas = append(o.deltas, text)
}

func (o *recordingObserver) OnToolCall(name, _ string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.toolCalls = append(o.toolCalls, name)
}

func (o *recordingObserver) OnToolResult(_, result string, isError bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
	o.errors = append(o.errors, isError)
}

func (o *recordingObserver) OnFinal(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.final = text
}

func (o *recordingObserver) OnTurnError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.turnErr = err
}

func newTestRegistry(t *testing.T) *tooling.Registry {
	t.Helper()
	store := state.NewStore()
	store.Seed()
	r, err := tooling.NewRegistry(tools.All(store)...)
	require.NoError(t, err)
	return r
}

func toolCallMessage(calls ...schema.ToolCall) *schema.Message {
	return schema.AssistantMessage("", calls)
}

func call(id, name, arguments string) schema.ToolCall {
	return schema.ToolCall{ID: id, Function: schema.FunctionCall{Name: name, Arguments: arguments}}
}

func TestRunTurnPlainAnswer(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: schema.AssistantMessage("Hello there!", nil)},
	)
	obs := &recordingObserver{}
	eng, err := New(chatModel, newTestRegistry(t), Config{}, obs)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "hi")
	require.NoError(t, err)

	assert.Equal(t, "Hello there!", result.Final)
	assert.Equal(t, 1, result.RoundTrips)
	// User message plus the model's answer.
	require.Len(t, result.Messages, 2)
	assert.Equal(t, schema.User, result.Messages[0].Role)
	assert.Equal(t, "hi", result.Messages[0].Content)
	assert.Equal(t, "Hello there!", obs.final)
	assert.Empty(t, obs.toolCalls)
}

func TestRunTurnBindsRegistryTools(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: schema.AssistantMessage("ok", nil)},
	)
	registry := newTestRegistry(t)
	_, err := New(chatModel, registry, Config{}, nil)
	require.NoError(t, err)

	bound := chatModel.BoundTools()
	require.Len(t, bound, len(registry.ToolInfos()))
	assert.Equal(t, tools.ToolCreatePlan, bound[0].Name)
}

func TestRunTurnExecutesToolCall(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: toolCallMessage(
			call("c1", tools.ToolCreatePlan, `{"title":"p","tasks":["a","b"]}`),
		)},
		enginetest.Response{Message: schema.AssistantMessage("Plan created.", nil)},
	)
	obs := &recordingObserver{}
	eng, err := New(chatModel, newTestRegistry(t), Config{}, obs)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "make a plan")
	require.NoError(t, err)

	assert.Equal(t, "Plan created.", result.Final)
	assert.Equal(t, 2, result.RoundTrips)
	// user, assistant(tool call), tool result, final answer.
	require.Len(t, result.Messages, 4)
	toolMsg := result.Messages[2]
	assert.Equal(t, schema.Tool, toolMsg.Role)
	assert.Equal(t, "c1", toolMsg.ToolCallID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &payload))
	assert.Equal(t, "plan_created", payload["status"])

	// The second model request must include the tool result.
	requests := chatModel.Requests()
	require.Len(t, requests, 2)
	second := requests[1]
	assert.Equal(t, schema.Tool, second[len(second)-1].Role)

	assert.Equal(t, []string{tools.ToolCreatePlan}, obs.toolCalls)
	assert.Equal(t, []bool{false}, obs.errors)
}

func TestRunTurnSiblingToolCallsAllAnswered(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: toolCallMessage(
			call("c1", tools.ToolGetPlan, `{}`),
			call("c2", tools.ToolListContacts, `{}`),
		)},
		enginetest.Response{Message: schema.AssistantMessage("done", nil)},
	)
	eng, err := New(chatModel, newTestRegistry(t), Config{}, nil)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "status?")
	require.NoError(t, err)

	// Exactly one tool result per request, in emission order, before the
	// next model call.
	require.Len(t, result.Messages, 5)
	assert.Equal(t, "c1", result.Messages[2].ToolCallID)
	assert.Equal(t, "c2", result.Messages[3].ToolCallID)

	requests := chatModel.Requests()
	require.Len(t, requests, 2)
	second := requests[1]
	assert.Equal(t, schema.Tool, second[len(second)-2].Role)
	assert.Equal(t, schema.Tool, second[len(second)-1].Role)
}

func TestRunTurnSynthesizesMissingCallIDs(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: toolCallMessage(
			call("", tools.ToolGetPlan, `{}`),
			call("", tools.ToolListContacts, `{}`),
		)},
		enginetest.Response{Message: schema.AssistantMessage("done", nil)},
	)
	eng, err := New(chatModel, newTestRegistry(t), Config{}, nil)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "status?")
	require.NoError(t, err)

	assert.Equal(t, "call_1", result.Messages[2].ToolCallID)
	assert.Equal(t, "call_2", result.Messages[3].ToolCallID)
}

func TestRunTurnUnknownToolFedBackInBand(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: toolCallMessage(call("c1", "teleport", `{}`))},
		enginetest.Response{Message: schema.AssistantMessage("sorry, no such ability", nil)},
	)
	obs := &recordingObserver{}
	eng, err := New(chatModel, newTestRegistry(t), Config{}, obs)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "teleport me")
	require.NoError(t, err)

	assert.Equal(t, "sorry, no such ability", result.Final)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Messages[2].Content), &payload))
	assert.Equal(t, "unknown_tool", payload["error"])
	assert.Equal(t, []bool{true}, obs.errors)
}

func TestRunTurnInvalidArgumentsFedBackInBand(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: toolCallMessage(call("c1", tools.ToolCreatePlan, `{"tasks":["a"]}`))},
		enginetest.Response{Message: schema.AssistantMessage("let me retry", nil)},
	)
	eng, err := New(chatModel, newTestRegistry(t), Config{}, nil)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "plan it")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Messages[2].Content), &payload))
	assert.Equal(t, "invalid_arguments", payload["error"])
}

func TestRunTurnMaxRoundTrips(t *testing.T) {
	// The model never stops asking for tools.
	responses := make([]enginetest.Response, 0, 4)
	for i := 0; i < 4; i++ {
		responses = append(responses, enginetest.Response{
			Message: toolCallMessage(call("", tools.ToolGetPlan, `{}`)),
		})
	}
	chatModel := enginetest.NewScriptedModel(responses...)
	obs := &recordingObserver{}
	eng, err := New(chatModel, newTestRegistry(t), Config{MaxRoundTrips: 3}, obs)
	require.NoError(t, err)

	_, err = eng.RunTurn(context.Background(), nil, "loop forever")
	require.ErrorIs(t, err, ErrMaxRoundTrips)
	assert.ErrorIs(t, obs.turnErr, ErrMaxRoundTrips)
	assert.Len(t, chatModel.Requests(), 3)
}

func TestRunTurnModelTimeout(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(enginetest.Response{Block: true})
	eng, err := New(chatModel, newTestRegistry(t), Config{ModelTimeout: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = eng.RunTurn(context.Background(), nil, "hang")
	require.ErrorIs(t, err, ErrModelTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunTurnParentCancellationIsNotATimeout(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(enginetest.Response{Block: true})
	eng, err := New(chatModel, newTestRegistry(t), Config{ModelTimeout: time.Minute}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = eng.RunTurn(ctx, nil, "hang")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrModelTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTurnStreamingForwardsDeltas(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: schema.AssistantMessage("streamed answer", nil)},
	)
	obs := &recordingObserver{}
	eng, err := New(chatModel, newTestRegistry(t), Config{Streaming: true}, obs)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "hi")
	require.NoError(t, err)

	assert.Equal(t, "streamed answer", result.Final)
	assert.Equal(t, []string{"streamed answer"}, obs.deltas)
}

func TestRunTurnAccountsUsageCost(t *testing.T) {
	answer := schema.AssistantMessage("costed", nil)
	answer.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500},
	}
	chatModel := enginetest.NewScriptedModel(enginetest.Response{Message: answer})
	eng, err := New(chatModel, newTestRegistry(t), Config{ModelName: "gemini-2.5-flash"}, nil)
	require.NoError(t, err)

	result, err := eng.RunTurn(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.Greater(t, result.CostUSD, 0.0)
}

func TestRunTurnKeepsHistoryPrefix(t *testing.T) {
	chatModel := enginetest.NewScriptedModel(
		enginetest.Response{Message: schema.AssistantMessage("again?", nil)},
	)
	eng, err := New(chatModel, newTestRegistry(t), Config{}, nil)
	require.NoError(t, err)

	history := []*schema.Message{
		schema.SystemMessage("You are a helper."),
		schema.UserMessage("earlier question"),
		schema.AssistantMessage("earlier answer", nil),
	}
	result, err := eng.RunTurn(context.Background(), history, "follow-up")
	require.NoError(t, err)

	// History is context only; the result carries just this turn's messages.
	require.Len(t, result.Messages, 2)

	request := chatModel.Requests()[0]
	require.Len(t, request, 4)
	assert.Equal(t, schema.System, request[0].Role)
	assert.Equal(t, "follow-up", request[3].Content)
}
