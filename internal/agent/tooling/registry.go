// Package tooling implements the registry of functions exposed to the model:
// named descriptors carrying an eino parameter schema plus a Go handler.
// Invocation validates arguments against the schema before the handler runs.
package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/schema"

	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
)

// Handler executes one tool call with schema-validated arguments. Business
// failures should be returned as an error-shaped result value, not an error;
// a returned error is treated as an unexpected crash.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Descriptor declares one tool: its name, model-facing description,
// parameter schema and implementation.
type Descriptor struct {
	Name    string
	Desc    string
	Params  map[string]*schema.ParameterInfo
	Handler Handler
}

// Info builds the eino declaration sent to the model for this tool.
func (d Descriptor) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        d.Name,
		Desc:        d.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(d.Params),
	}
}

// Registry stores descriptors by name. Names are unique per registry.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Descriptor
	order []string
}

func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{tools: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a descriptor, failing on duplicate names or nil handlers.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if d.Handler == nil {
		return fmt.Errorf("tool %q has a nil handler", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, d.Name)
	}
	r.tools[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Resolve returns the descriptor registered under name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return d, nil
}

// ToolInfos exports the declarations for model binding, in registration order.
func (r *Registry) ToolInfos() []*schema.ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.tools[name].Info())
	}
	return infos
}

// Invoke validates args against the descriptor's schema and runs the handler.
// Panics inside the handler are recovered into an ExecutionError so a broken
// tool never takes the turn down with it.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (result any, err error) {
	d, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	if err := validateArguments(d, args); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().Str("tool", name).Any("panic", rec).Msg("tool handler panicked")
			err = &ExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	return d.Handler(ctx, args)
}

// InvokeJSON decodes a JSON argument string as emitted by the model, invokes
// the tool, and re-encodes the result for the tool-result message.
func (r *Registry) InvokeJSON(ctx context.Context, name, arguments string) (string, error) {
	args := map[string]any{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", &InvalidArgumentsError{
				Tool:       name,
				Mismatched: []string{fmt.Sprintf("arguments are not a JSON object: %v", err)},
			}
		}
	}

	result, err := r.Invoke(ctx, name, args)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(result)
	if err != nil {
		return "", &ExecutionError{Tool: name, Err: fmt.Errorf("marshal result: %w", err)}
	}
	return string(b), nil
}
