// Package cli implements the interactive read-eval-print loop: commands
// exit/quit/q terminate, verbose toggles tool-event display, and any other
// input is forwarded as a user message for one turn.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ChatFunc runs one turn and returns the final answer.
type ChatFunc func(ctx context.Context, text string) (string, error)

type REPL struct {
	in       *bufio.Reader
	out      io.Writer
	renderer *Renderer
	chat     ChatFunc
	banner   string
}

func NewREPL(in io.Reader, out io.Writer, renderer *Renderer, chat ChatFunc, banner string) *REPL {
	if in == nil {
		in = strings.NewReader("")
	}
	return &REPL{
		in:       bufio.NewReader(in),
		out:      out,
		renderer: renderer,
		chat:     chat,
		banner:   banner,
	}
}

func (r *REPL) Run(ctx context.Context) error {
	if r.banner != "" {
		fmt.Fprintln(r.out, r.banner)
	}

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil
		}

		fmt.Fprint(r.out, "> ")
		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			continue
		}

		if done := r.dispatch(ctx, trimmed); done {
			return nil
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// dispatch handles one input line and reports whether the loop should end.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case "verbose":
		if r.renderer.ToggleVerbose() {
			fmt.Fprintln(r.out, "verbose mode on")
		} else {
			fmt.Fprintln(r.out, "verbose mode off")
		}
		return false
	}

	answer, err := r.chat(ctx, line)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return false
	}
	fmt.Fprintln(r.out, answer)
	return false
}
