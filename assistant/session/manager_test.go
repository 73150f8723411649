package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

func testCatalog() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{Name: "verify_data_tool", Desc: "verify sales data"},
		{Name: "product_market_fit_tool", Desc: "analyze pmf"},
	}
}

func echoExecutor(_ context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	return contractx.ToolResult{Tool: tool, Result: args}, nil
}

func TestCreateAndGetSnapshot(t *testing.T) {
	t.Parallel()

	m := NewManager(testCatalog(), echoExecutor)
	created := m.Create("s1", map[string]any{"voice": "alloy"})

	got, err := m.Get("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != "s1" || got.CreatedAt.IsZero() {
		t.Fatalf("bad session: %+v", got)
	}
	if len(got.Tools) != 2 || got.Tools[0].Name != created.Tools[0].Name {
		t.Fatalf("tool snapshot mismatch: %+v", got.Tools)
	}
	if got.Config["voice"] != "alloy" {
		t.Fatalf("config not kept: %+v", got.Config)
	}
}

func TestCreateGeneratesID(t *testing.T) {
	t.Parallel()

	m := NewManager(testCatalog(), echoExecutor)
	sess := m.Create("", nil)
	if sess.SessionID == "" {
		t.Fatal("empty id must be generated")
	}
	if _, err := m.Get(sess.SessionID); err != nil {
		t.Fatalf("generated session must be retrievable: %v", err)
	}
}

func TestEndThenGetNotFound(t *testing.T) {
	t.Parallel()

	m := NewManager(testCatalog(), echoExecutor)
	m.Create("s1", nil)

	if err := m.End("s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Get("s1"); !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := m.End("s1"); !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("double end must report not found, got %v", err)
	}
}

func TestListTracksCreateMinusEnd(t *testing.T) {
	t.Parallel()

	m := NewManager(testCatalog(), echoExecutor)
	if m.List().Count != 0 {
		t.Fatal("new manager must be empty")
	}

	m.Create("a", nil)
	m.Create("b", nil)
	m.Create("c", nil)
	if got := m.List().Count; got != 3 {
		t.Fatalf("expected 3 sessions, got %d", got)
	}

	if err := m.End("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := m.List()
	if list.Count != 2 || len(list.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %+v", list)
	}
}

func TestHandleMessageToolCall(t *testing.T) {
	t.Parallel()

	m := NewManager(testCatalog(), echoExecutor)
	m.Create("s1", nil)

	reply, err := m.HandleMessage(context.Background(), "s1", contractx.SessionMessage{
		Type:      "tool_call",
		ToolName:  "verify_data_tool",
		Arguments: map[string]any{"context": "vendas", "prompt": "resumo"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reply.Success || reply.Type != "tool_response" {
		t.Fatalf("bad reply shape: %+v", reply)
	}
	if reply.ToolName != "verify_data_tool" || reply.Result.Tool != "verify_data_tool" {
		t.Fatalf("tool name must round-trip: %+v", reply)
	}
}

func TestHandleMessageNonToolCall(t *testing.T) {
	t.Parallel()

	m := NewManager(testCatalog(), echoExecutor)
	m.Create("s1", nil)

	reply, err := m.HandleMessage(context.Background(), "s1", contractx.SessionMessage{Type: "ping"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Type != "message_received" || reply.SessionID != "s1" {
		t.Fatalf("bad ack: %+v", reply)
	}
}

func TestHandleMessageUnknownSession(t *testing.T) {
	t.Parallel()

	m := NewManager(testCatalog(), echoExecutor)
	_, err := m.HandleMessage(context.Background(), "ghost", contractx.SessionMessage{Type: "tool_call"})
	if !errors.Is(err, contractx.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWithClockPinsCreatedAt(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(testCatalog(), echoExecutor).WithClock(func() time.Time { return fixed })

	sess := m.Create("s1", nil)
	if !sess.CreatedAt.Equal(fixed) {
		t.Fatalf("expected pinned time, got %v", sess.CreatedAt)
	}
}
