// Package enginetest provides a deterministic chat model for engine and
// transport tests: it replays a scripted sequence of responses and records
// every request it receives.
package enginetest

import (
	"context"
	"fmt"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Response configures one model round-trip in a scripted sequence.
type Response struct {
	Message *schema.Message
	Err     error
	// Block makes the call wait for context cancellation and return ctx.Err(),
	// for exercising timeout and cancellation paths.
	Block bool
}

// ScriptedModel replays responses in order and records requests.
type ScriptedModel struct {
	mu        sync.Mutex
	index     int
	responses []Response
	tools     []*schema.ToolInfo
	requests  [][]*schema.Message
}

var _ einomodel.ToolCallingChatModel = (*ScriptedModel)(nil)

func NewScriptedModel(responses ...Response) *ScriptedModel {
	cloned := make([]Response, len(responses))
	copy(cloned, responses)
	return &ScriptedModel{responses: cloned}
}

func (m *ScriptedModel) Generate(ctx context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	recorded := make([]*schema.Message, len(in))
	copy(recorded, in)
	m.requests = append(m.requests, recorded)

	if m.index >= len(m.responses) {
		step := m.index + 1
		m.mu.Unlock()
		return nil, fmt.Errorf("script exhausted at step %d", step)
	}
	current := m.responses[m.index]
	m.index++
	m.mu.Unlock()

	if current.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if current.Err != nil {
		return nil, current.Err
	}
	msg := *current.Message
	if msg.Role == "" {
		msg.Role = schema.Assistant
	}
	return &msg, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{out}), nil
}

func (m *ScriptedModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools = tools
	return m, nil
}

// Requests returns every message slice the model was called with.
func (m *ScriptedModel) Requests() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]*schema.Message, len(m.requests))
	copy(out, m.requests)
	return out
}

// BoundTools returns the declarations bound via WithTools.
func (m *ScriptedModel) BoundTools() []*schema.ToolInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tools
}
