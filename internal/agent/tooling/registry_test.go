package tooling

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoDescriptor(name string) Descriptor {
	return Descriptor{
		Name: name,
		Desc: "echoes its arguments",
		Params: map[string]*schema.ParameterInfo{
			"text": {Type: schema.String, Desc: "text to echo", Required: true},
		},
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"echo": args["text"]}, nil
		},
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r, err := NewRegistry(echoDescriptor("echo"))
	require.NoError(t, err)

	err = r.Register(echoDescriptor("echo"))
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestRegisterRejectsEmptyNameAndNilHandler(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Error(t, r.Register(Descriptor{Name: "", Handler: func(context.Context, map[string]any) (any, error) { return nil, nil }}))
	assert.Error(t, r.Register(Descriptor{Name: "broken"}))
}

func TestResolveUnknownTool(t *testing.T) {
	r, err := NewRegistry(echoDescriptor("echo"))
	require.NoError(t, err)

	_, err = r.Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = r.Invoke(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestToolInfosRegistrationOrder(t *testing.T) {
	r, err := NewRegistry(echoDescriptor("charlie"), echoDescriptor("alpha"), echoDescriptor("bravo"))
	require.NoError(t, err)

	infos := r.ToolInfos()
	require.Len(t, infos, 3)
	assert.Equal(t, "charlie", infos[0].Name)
	assert.Equal(t, "alpha", infos[1].Name)
	assert.Equal(t, "bravo", infos[2].Name)
}

func TestInvokeMissingRequiredArgument(t *testing.T) {
	r, err := NewRegistry(echoDescriptor("echo"))
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "echo", map[string]any{})
	var invalid *InvalidArgumentsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "echo", invalid.Tool)
	assert.Equal(t, []string{"text"}, invalid.Missing)
	assert.Empty(t, invalid.Mismatched)
}

func TestInvokeTypeMismatch(t *testing.T) {
	r, err := NewRegistry(Descriptor{
		Name: "typed",
		Params: map[string]*schema.ParameterInfo{
			"count": {Type: schema.Integer, Required: true},
			"label": {Type: schema.String, Required: false},
			"flags": {Type: schema.Array, ElemInfo: &schema.ParameterInfo{Type: schema.String}},
		},
		Handler: func(_ context.Context, args map[string]any) (any, error) { return args, nil },
	})
	require.NoError(t, err)

	ctx := context.Background()

	// JSON numbers decode to float64; whole values satisfy Integer.
	_, err = r.Invoke(ctx, "typed", map[string]any{"count": float64(3)})
	assert.NoError(t, err)

	_, err = r.Invoke(ctx, "typed", map[string]any{"count": 3.5, "label": true})
	var invalid *InvalidArgumentsError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Mismatched, 2)

	_, err = r.Invoke(ctx, "typed", map[string]any{"count": float64(1), "flags": "not-an-array"})
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Mismatched, 1)
}

func TestInvokeToleratesUndeclaredExtras(t *testing.T) {
	r, err := NewRegistry(echoDescriptor("echo"))
	require.NoError(t, err)

	result, err := r.Invoke(context.Background(), "echo", map[string]any{"text": "hi", "surprise": 42})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"echo": "hi"}, result)
}

func TestInvokeRecoversPanics(t *testing.T) {
	r, err := NewRegistry(Descriptor{
		Name: "crash",
		Handler: func(context.Context, map[string]any) (any, error) {
			panic("boom")
		},
	})
	require.NoError(t, err)

	_, err = r.Invoke(context.Background(), "crash", nil)
	var exec *ExecutionError
	require.ErrorAs(t, err, &exec)
	assert.Equal(t, "crash", exec.Tool)
	assert.Contains(t, exec.Error(), "boom")
}

func TestInvokeJSON(t *testing.T) {
	r, err := NewRegistry(echoDescriptor("echo"))
	require.NoError(t, err)

	out, err := r.InvokeJSON(context.Background(), "echo", `{"text":"hello"}`)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "hello", decoded["echo"])
}

func TestInvokeJSONEmptyArguments(t *testing.T) {
	r, err := NewRegistry(Descriptor{
		Name:    "noargs",
		Handler: func(context.Context, map[string]any) (any, error) { return map[string]string{"ok": "yes"}, nil },
	})
	require.NoError(t, err)

	out, err := r.InvokeJSON(context.Background(), "noargs", "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":"yes"}`, out)
}

func TestInvokeJSONMalformedArguments(t *testing.T) {
	r, err := NewRegistry(echoDescriptor("echo"))
	require.NoError(t, err)

	_, err = r.InvokeJSON(context.Background(), "echo", `{"text":`)
	var invalid *InvalidArgumentsError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "echo", invalid.Tool)
}
