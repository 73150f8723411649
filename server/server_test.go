package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/voxboard/voxboard/assistant/contract"
	"github.com/voxboard/voxboard/assistant/session"
	"github.com/voxboard/voxboard/assistant/trigger"
)

type fakeAnalyzer struct {
	data contractx.DashboardData
	err  error
}

func (f *fakeAnalyzer) DashboardData(context.Context, string, string) (contractx.DashboardData, error) {
	return f.data, f.err
}

type fakeVerifier struct {
	answer string
	err    error
}

func (f *fakeVerifier) Verify(context.Context, string, string) (string, error) {
	return f.answer, f.err
}

type fakeContacts struct {
	summaries []contractx.ContactSummary
	err       error
}

func (f *fakeContacts) ContactSummaries(context.Context) ([]contractx.ContactSummary, error) {
	return f.summaries, f.err
}

type stubTrigger struct {
	name     string
	keywords []string
	response contractx.Response
}

func (s *stubTrigger) Name() string       { return s.name }
func (s *stubTrigger) Keywords() []string { return s.keywords }
func (s *stubTrigger) Priority() int      { return 75 }
func (s *stubTrigger) Matches(query string) bool {
	return trigger.ContainsAnyKeyword(query, s.keywords)
}
func (s *stubTrigger) Action(context.Context, string) (contractx.Response, error) {
	return s.response, nil
}

func newTestServer(t *testing.T, analyzer *fakeAnalyzer, verifier *fakeVerifier, contacts *fakeContacts) *Server {
	t.Helper()

	registry := trigger.NewRegistry(&stubTrigger{
		name:     "market_fit",
		keywords: []string{"market fit"},
		response: contractx.Response{Text: "analysis ready", Speak: true},
	})

	catalog := []*schema.ToolInfo{{Name: "verify_data_tool", Desc: "verify"}}
	executor := func(_ context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{Tool: tool, Result: args}, nil
	}
	sessions := session.NewManager(catalog, executor)

	return New(Config{Mode: "test"}, registry, sessions, analyzer, verifier, contacts)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestDashboardDataRoute(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{data: contractx.DashboardData{
		LLMResponse: "insight",
		Contacts:    []contractx.ContactSummary{{ID: "1", Nome: "Ana"}},
		NotionText:  "roadmap",
	}}
	srv := newTestServer(t, analyzer, &fakeVerifier{}, &fakeContacts{})

	rec := doJSON(t, srv, http.MethodPost, "/dashboard/data",
		map[string]string{"context": "segmentos", "prompt": "resumo"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if out["llm_response"] != "insight" || out["notion_page_text"] != "roadmap" {
		t.Fatalf("bad payload: %v", out)
	}
}

func TestDashboardDataRequiresPrompt(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})
	rec := doJSON(t, srv, http.MethodPost, "/dashboard/data", map[string]string{"context": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestErrorTaxonomyMapsToStatuses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"upstream status", fmt.Errorf("%w: status=500", contractx.ErrUpstreamStatus), http.StatusBadGateway},
		{"unreachable", fmt.Errorf("%w: dial tcp", contractx.ErrUnavailable), http.StatusServiceUnavailable},
		{"validation", fmt.Errorf("%w: missing key", contractx.ErrValidation), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, &fakeAnalyzer{err: tc.err}, &fakeVerifier{}, &fakeContacts{})
			rec := doJSON(t, srv, http.MethodPost, "/dashboard/data",
				map[string]string{"prompt": "resumo"})
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestVerifyDataRoute(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{answer: "dados corretos"}, &fakeContacts{})
	rec := doJSON(t, srv, http.MethodPost, "/verify-data",
		map[string]string{"context": "vendas", "prompt": "a receita foi 5000?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if out := decode(t, rec); out["response"] != "dados corretos" {
		t.Fatalf("bad payload: %v", out)
	}
}

func TestContactsSummaryRoute(t *testing.T) {
	t.Parallel()

	contacts := &fakeContacts{summaries: []contractx.ContactSummary{
		{ID: "1", Nome: "Ana"}, {ID: "2", Nome: "Bruno"},
	}}
	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, contacts)

	rec := doJSON(t, srv, http.MethodGet, "/contacts/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["total_contatos"] != float64(2) {
		t.Fatalf("bad count: %v", out)
	}
}

func TestQueryRouteDispatchesTrigger(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})
	rec := doJSON(t, srv, http.MethodPost, "/query",
		map[string]string{"query": "check our market fit"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["success"] != true || out["trigger"] != "market_fit" {
		t.Fatalf("bad payload: %v", out)
	}
}

func TestQueryRouteNoMatchIsNotAnHTTPError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})
	rec := doJSON(t, srv, http.MethodPost, "/query",
		map[string]string{"query": "tell me a joke"})
	if rec.Code != http.StatusOK {
		t.Fatalf("no-match must stay 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["success"] != false || out["query"] != "tell me a joke" {
		t.Fatalf("bad payload: %v", out)
	}
}

func TestTriggersRoute(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})
	rec := doJSON(t, srv, http.MethodGet, "/triggers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if out := decode(t, rec); out["count"] != float64(1) {
		t.Fatalf("bad payload: %v", out)
	}
}

func TestSessionLifecycleRoutes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})

	rec := doJSON(t, srv, http.MethodPost, "/sessions",
		map[string]any{"session_id": "s1", "config": map[string]any{"voice": "alloy"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", rec.Code)
	}
	if out := decode(t, rec); out["session_id"] != "s1" {
		t.Fatalf("bad create payload: %v", out)
	}

	rec = doJSON(t, srv, http.MethodGet, "/sessions/s1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/sessions/s1/messages", map[string]any{
		"type":      "tool_call",
		"tool_name": "verify_data_tool",
		"arguments": map[string]any{"context": "vendas"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("message: expected 200, got %d", rec.Code)
	}
	if out := decode(t, rec); out["type"] != "tool_response" {
		t.Fatalf("bad message payload: %v", out)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/sessions/s1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/sessions/s1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodDelete, "/sessions/s1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d", rec.Code)
	}
}

func TestCreateSessionWithEmptyBody(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})
	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if out := decode(t, rec); out["session_id"] == "" {
		t.Fatalf("session id must be generated: %v", out)
	}
}

func TestSessionMessageUnknownSession(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})
	rec := doJSON(t, srv, http.MethodPost, "/sessions/ghost/messages",
		map[string]any{"type": "tool_call", "tool_name": "verify_data_tool"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStatusRoute(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnalyzer{}, &fakeVerifier{}, &fakeContacts{})
	doJSON(t, srv, http.MethodPost, "/sessions", map[string]any{"session_id": "s1"})

	rec := doJSON(t, srv, http.MethodGet, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["running"] != true {
		t.Fatalf("bad payload: %v", out)
	}
	sessions, ok := out["sessions"].(map[string]any)
	if !ok || sessions["count"] != float64(1) {
		t.Fatalf("session list missing: %v", out)
	}
}
