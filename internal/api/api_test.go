package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/pipeline"
)

func newTestServer(opts ...Option) *Server {
	return New(":0", opts...)
}

func postAnalyze(t *testing.T, srv *Server, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(model.AnalysisRequest{
		Repos: []string{"https://github.com/a/crewai-demo", "https://github.com/b/langchain-app"},
		Query: "which framework?",
	})

	for _, path := range []string{"/analyze", "/api/analyze"} {
		w := postAnalyze(t, srv, path, string(body))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, w.Code, w.Body.String())
		}

		result, err := model.DecodeResult(w.Body.Bytes())
		if err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if len(result.Aggregate) != 2 {
			t.Errorf("%s: expected 2 trends, got %d", path, len(result.Aggregate))
		}
		if result.Aggregate[0].Label != "crewai" {
			t.Errorf("%s: expected crewai first, got %q", path, result.Aggregate[0].Label)
		}
		want := model.Comparison{CrewAIProjects: 1, LangChainProjects: 1, Difference: 0}
		if result.Comparison != want {
			t.Errorf("%s: comparison = %+v, want %+v", path, result.Comparison, want)
		}
		if !strings.Contains(result.Summary, "which framework?") {
			t.Errorf("%s: summary missing query: %q", path, result.Summary)
		}
		if !result.Verified {
			t.Errorf("%s: expected verified", path)
		}
	}
}

func TestAnalyzeNoRepos(t *testing.T) {
	srv := newTestServer()

	for _, body := range []string{`{"repos": [], "query": ""}`, `{"query": "x"}`} {
		w := postAnalyze(t, srv, "/analyze", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json decode: %v", err)
		}
		if resp["detail"] != "No repositories provided" {
			t.Errorf("unexpected detail %q", resp["detail"])
		}
	}
}

func TestAnalyzeInsufficientInsights(t *testing.T) {
	empty := pipeline.SummarizerFunc(func(context.Context, *pipeline.State) (string, error) {
		return "", nil
	})
	srv := newTestServer(WithSummarizer(empty))

	w := postAnalyze(t, srv, "/analyze", `{"repos": ["https://github.com/c/plain"]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Failed to generate sufficient insights") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestAnalyzeUnverifiedStillSucceeds(t *testing.T) {
	srv := newTestServer()

	w := postAnalyze(t, srv, "/analyze", `{"repos": ["https://github.com/c/plain"], "query": ""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	result, err := model.DecodeResult(w.Body.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Verified {
		t.Error("expected unverified result")
	}
	if len(result.Aggregate) != 0 {
		t.Errorf("expected empty aggregate, got %v", result.Aggregate)
	}
	if !strings.Contains(w.Body.String(), `"aggregate": {}`) {
		t.Errorf("aggregate should encode as an empty object: %s", w.Body.String())
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	srv := newTestServer()

	w := postAnalyze(t, srv, "/analyze", "{bad json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAnalyzeWrongMethod(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", DefaultAllowOrigin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight: expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != DefaultAllowOrigin {
		t.Errorf("preflight: allow-origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{"repos": ["https://github.com/a/rag"]}`)))
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin should not be allowed, got %q", got)
	}
}

func TestCORSCustomOrigin(t *testing.T) {
	srv := newTestServer(WithAllowOrigin("*"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://anywhere.example" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestServerAddr(t *testing.T) {
	srv := newTestServer()
	if srv.Addr() != ":0" {
		t.Errorf("expected addr :0, got %q", srv.Addr())
	}
}

func dialWS(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketAnalyze(t *testing.T) {
	conn := dialWS(t, newTestServer())

	data, _ := json.Marshal(model.AnalysisRequest{Repos: []string{"https://github.com/a/langgraph-rag"}})
	if err := conn.WriteJSON(wsMessage{Type: wsMsgAnalyze, Data: data}); err != nil {
		t.Fatalf("ws write: %v", err)
	}

	var stages []string
	for range pipeline.StageNames() {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ws read stage: %v", err)
		}
		if msg.Type != wsMsgStage {
			t.Fatalf("expected 'stage' message, got %q", msg.Type)
		}
		var st wsStage
		if err := json.Unmarshal(msg.Data, &st); err != nil {
			t.Fatalf("unmarshal stage: %v", err)
		}
		if st.Total != 5 {
			t.Errorf("expected total 5, got %d", st.Total)
		}
		stages = append(stages, st.Name)
	}
	if strings.Join(stages, ",") != "analyzer,aggregator,comparator,summarizer,fact_checker" {
		t.Errorf("unexpected stage order %v", stages)
	}

	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ws read result: %v", err)
	}
	if msg.Type != wsMsgResult {
		t.Fatalf("expected 'result' message, got %q", msg.Type)
	}
	result, err := model.DecodeResult(msg.Data)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if _, ok := result.Aggregate.Lookup("langgraph"); !ok {
		t.Errorf("expected langgraph trend, got %v", result.Aggregate)
	}
}

func TestWebSocketErrors(t *testing.T) {
	conn := dialWS(t, newTestServer())

	tests := []struct {
		send string
		want string
	}{
		{`not json`, "invalid message format"},
		{`{"type": "bogus"}`, "unknown message type: bogus"},
		{`{"type": "analyze", "data": {"repos": []}}`, "No repositories provided"},
		{`{"type": "analyze", "data": "nope"}`, "invalid analyze data"},
	}

	for _, tt := range tests {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.send)); err != nil {
			t.Fatalf("ws write: %v", err)
		}
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ws read: %v", err)
		}
		if msg.Type != wsMsgError {
			t.Errorf("%s: expected error message, got %q", tt.send, msg.Type)
			continue
		}
		var payload map[string]string
		json.Unmarshal(msg.Data, &payload)
		if payload["message"] != tt.want {
			t.Errorf("%s: message = %q, want %q", tt.send, payload["message"], tt.want)
		}
	}
}
