package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/engine"
)

// Renderer writes engine events to the console. It is the CLI's
// presentation adapter; the verbose flag controls tool-event detail.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

var _ engine.Observer = (*Renderer)(nil)

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// ToggleVerbose flips tool-event display and returns the new value.
func (r *Renderer) ToggleVerbose() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbose = !r.verbose
	return r.verbose
}

func (r *Renderer) isVerbose() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verbose
}

func (r *Renderer) OnModelDelta(text string) {
	fmt.Fprint(r.out, text)
}

func (r *Renderer) OnToolCall(name, arguments string) {
	if !r.isVerbose() {
		return
	}
	fmt.Fprintf(r.out, "[tool call] %s %s\n", name, arguments)
}

func (r *Renderer) OnToolResult(name, result string, isError bool) {
	if !r.isVerbose() {
		return
	}
	marker := "[tool result]"
	if isError {
		marker = "[tool error]"
	}
	fmt.Fprintf(r.out, "%s %s %s\n", marker, name, result)
}

func (r *Renderer) OnFinal(string) {
	// the REPL prints the final answer itself
}

func (r *Renderer) OnTurnError(err error) {
	fmt.Fprintf(r.out, "error: %v\n", err)
}
