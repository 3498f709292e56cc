package engine

// Observer receives presentation events as a turn progresses. Implementations
// render to a console or web surface; the engine never depends on how.
type Observer interface {
	// OnModelDelta is called per content fragment when streaming is enabled.
	OnModelDelta(text string)
	// OnToolCall is called before a tool is invoked.
	OnToolCall(name, arguments string)
	// OnToolResult is called with the tool-result payload. isError reports
	// whether the payload is an error-shaped result.
	OnToolResult(name, result string, isError bool)
	// OnFinal is called with the turn's final answer text.
	OnFinal(text string)
	// OnTurnError is called when the turn fails without a final answer.
	OnTurnError(err error)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnModelDelta(string)               {}
func (NopObserver) OnToolCall(string, string)         {}
func (NopObserver) OnToolResult(string, string, bool) {}
func (NopObserver) OnFinal(string)                    {}
func (NopObserver) OnTurnError(error)                 {}
