// ABOUTME: Tool registry shared by the protocol server.
// ABOUTME: Holds tool definitions and dispatches calls to their handlers.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTool is returned by Call for names that were never registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrInvalidArguments is returned when a tool rejects its call arguments.
var ErrInvalidArguments = errors.New("invalid arguments")

// Definition describes a tool to protocol clients.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Content is one block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is what a tool call returns to the client. IsError marks a
// tool-level failure that still produces readable text, as opposed to a
// protocol error.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult builds a single-block text result.
func TextResult(text string) *Result {
	return &Result{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult builds a single-block text result flagged as an error.
func ErrorResult(text string) *Result {
	return &Result{Content: []Content{{Type: "text", Text: text}}, IsError: true}
}

// Handler executes a tool call. The authenticated user, when present,
// travels in ctx.
type Handler func(ctx context.Context, args json.RawMessage) (*Result, error)

// Tool pairs a definition with its handler.
type Tool struct {
	Definition Definition
	Handler    Handler
}

// Registry is a fixed set of tools keyed by name. It is populated once
// at startup and read-only afterwards, so no locking is needed.
type Registry struct {
	tools map[string]*Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool. Registering a duplicate name is a programming
// error and panics.
func (r *Registry) Register(t *Tool) {
	name := t.Definition.Name
	if _, exists := r.tools[name]; exists {
		panic(fmt.Sprintf("tools: duplicate registration of %q", name))
	}
	r.tools[name] = t
	r.order = append(r.order, name)
}

// List returns definitions in registration order.
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Names returns the sorted tool names, for logging and diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call dispatches to the named tool. Unknown names return an error so
// the protocol layer can map it to a method-not-found response.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Handler(ctx, args)
}
