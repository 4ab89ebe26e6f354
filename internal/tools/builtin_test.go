// ABOUTME: Tests for the built-in tool handlers.
// ABOUTME: Covers arithmetic, divide-by-zero, and context-dependent user info.

package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/2389/backpack/internal/auth"
	"github.com/2389/backpack/internal/store"
)

func callTool(t *testing.T, ctx context.Context, name, args string) *Result {
	t.Helper()
	r := DefaultRegistry()
	result, err := r.Call(ctx, name, json.RawMessage(args))
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return result
}

func textOf(t *testing.T, result *Result) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	if result.Content[0].Type != "text" {
		t.Fatalf("expected text content, got %s", result.Content[0].Type)
	}
	return result.Content[0].Text
}

func TestDefaultRegistry_List(t *testing.T) {
	defs := DefaultRegistry().List()
	want := []string{"add", "calculate", "about", "get-user-info"}
	if len(defs) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(defs))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Errorf("tool %d: expected %s, got %s", i, name, defs[i].Name)
		}
		if len(defs[i].InputSchema) == 0 {
			t.Errorf("tool %s has no input schema", name)
		}
	}
}

func TestAdd(t *testing.T) {
	result := callTool(t, context.Background(), "add", `{"a": 2, "b": 3}`)
	if got := textOf(t, result); got != "5" {
		t.Errorf("expected 5, got %q", got)
	}
}

func TestAdd_Fractional(t *testing.T) {
	result := callTool(t, context.Background(), "add", `{"a": 0.1, "b": 0.25}`)
	if got := textOf(t, result); got != "0.35" {
		t.Errorf("expected 0.35, got %q", got)
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		op   string
		a, b float64
		want string
	}{
		{"add", 2, 3, "5"},
		{"subtract", 10, 4, "6"},
		{"multiply", 6, 7, "42"},
		{"divide", 5, 2, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			args, _ := json.Marshal(map[string]any{"operation": tt.op, "a": tt.a, "b": tt.b})
			result := callTool(t, context.Background(), "calculate", string(args))
			if got := textOf(t, result); got != tt.want {
				t.Errorf("expected %s, got %q", tt.want, got)
			}
		})
	}
}

func TestCalculate_DivideByZero(t *testing.T) {
	result := callTool(t, context.Background(), "calculate", `{"operation": "divide", "a": 5, "b": 0}`)
	got := textOf(t, result)
	if got != "Error: Cannot divide by zero" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestCalculate_UnknownOperation(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Call(context.Background(), "calculate", json.RawMessage(`{"operation": "modulo", "a": 5, "b": 2}`))
	if err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestAbout(t *testing.T) {
	result := callTool(t, context.Background(), "about", `{}`)
	if got := textOf(t, result); !strings.Contains(got, "Backpack") {
		t.Errorf("about text missing server name: %q", got)
	}
}

func TestGetUserInfo(t *testing.T) {
	user := &store.User{
		ID:        1,
		Email:     "a@b.com",
		APIKey:    "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	ctx := auth.WithUser(context.Background(), user)

	result := callTool(t, ctx, "get-user-info", `{}`)
	got := textOf(t, result)

	if !strings.Contains(got, "a@b.com") {
		t.Errorf("missing email: %q", got)
	}
	if !strings.Contains(got, "2026-08-01") {
		t.Errorf("missing created date: %q", got)
	}
	if !strings.Contains(got, "01234567...") {
		t.Errorf("missing truncated key: %q", got)
	}
	if strings.Contains(got, user.APIKey) {
		t.Errorf("full API key leaked: %q", got)
	}
}

func TestGetUserInfo_NoUser(t *testing.T) {
	result := callTool(t, context.Background(), "get-user-info", `{}`)
	if got := textOf(t, result); got != "Not authenticated" {
		t.Errorf("expected not-authenticated text, got %q", got)
	}
}

func TestCall_UnknownTool(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Call(context.Background(), "launch-missiles", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
}
