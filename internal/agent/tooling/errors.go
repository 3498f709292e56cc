package tooling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateTool is returned when registering a name twice.
	ErrDuplicateTool = errors.New("tool name already registered")
	// ErrUnknownTool is returned when resolving or invoking an absent name.
	ErrUnknownTool = errors.New("tool is not registered")
)

// InvalidArgumentsError lists what failed schema validation for one call.
type InvalidArgumentsError struct {
	Tool       string
	Missing    []string
	Mismatched []string
}

func (e *InvalidArgumentsError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Mismatched) > 0 {
		parts = append(parts, fmt.Sprintf("type mismatch: %s", strings.Join(e.Mismatched, ", ")))
	}
	return fmt.Sprintf("invalid arguments for tool %q (%s)", e.Tool, strings.Join(parts, "; "))
}

// ExecutionError wraps an unexpected crash inside a tool implementation.
// Business-level failures are returned as error-shaped results instead.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
