// ABOUTME: The built-in tool set: add, calculate, about, get-user-info.
// ABOUTME: Arithmetic is stateless; get-user-info reads the request context.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/2389/backpack/internal/auth"
)

const aboutText = "Backpack is an authenticated calculator gateway. " +
	"Sign up on the web UI to get an API key, then connect any MCP client " +
	"to /mcp with that key to use the tools."

// DefaultRegistry builds the registry served to every authenticated
// caller.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Tool{
		Definition: Definition{
			Name:        "add",
			Description: "Add two numbers",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"a":{"type":"number"},"b":{"type":"number"}},"required":["a","b"]}`),
		},
		Handler: handleAdd,
	})
	r.Register(&Tool{
		Definition: Definition{
			Name:        "calculate",
			Description: "Perform a basic arithmetic operation",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"operation":{"type":"string","enum":["add","subtract","multiply","divide"]},"a":{"type":"number"},"b":{"type":"number"}},"required":["operation","a","b"]}`),
		},
		Handler: handleCalculate,
	})
	r.Register(&Tool{
		Definition: Definition{
			Name:        "about",
			Description: "Describe this server",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		},
		Handler: handleAbout,
	})
	r.Register(&Tool{
		Definition: Definition{
			Name:        "get-user-info",
			Description: "Show the authenticated user's account details",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		},
		Handler: handleGetUserInfo,
	})
	return r
}

// formatNumber renders results the way clients expect: integers without
// a trailing ".0", fractions with their natural precision.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type addInput struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

func handleAdd(ctx context.Context, args json.RawMessage) (*Result, error) {
	var in addInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return TextResult(formatNumber(in.A + in.B)), nil
}

type calculateInput struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
}

func handleCalculate(ctx context.Context, args json.RawMessage) (*Result, error) {
	var in calculateInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	var result float64
	switch in.Operation {
	case "add":
		result = in.A + in.B
	case "subtract":
		result = in.A - in.B
	case "multiply":
		result = in.A * in.B
	case "divide":
		if in.B == 0 {
			return TextResult("Error: Cannot divide by zero"), nil
		}
		result = in.A / in.B
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidArguments, in.Operation)
	}
	return TextResult(formatNumber(result)), nil
}

func handleAbout(ctx context.Context, args json.RawMessage) (*Result, error) {
	return TextResult(aboutText), nil
}

func handleGetUserInfo(ctx context.Context, args json.RawMessage) (*Result, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return TextResult("Not authenticated"), nil
	}

	preview := user.APIKey
	if len(preview) > 8 {
		preview = preview[:8] + "..."
	}
	text := fmt.Sprintf("Email: %s\nCreated: %s\nAPI Key: %s",
		user.Email, user.CreatedAt.UTC().Format("2006-01-02"), preview)
	return TextResult(text), nil
}
