package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vibecoder/internal/chat"
	"vibecoder/internal/llmclient"
	"vibecoder/internal/store"
)

func newTestChatService(t *testing.T, backend *llmclient.MockBackend) *chat.Service {
	t.Helper()
	svc, err := chat.New(context.Background(), backend, store.New(t.TempDir()))
	if err != nil {
		t.Fatalf("chat.New() error = %v", err)
	}
	return svc
}

func waitForPlan(t *testing.T, svc *chat.Service) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.Plan() != "" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("plan was never finalized")
}

func TestHandleHistoryReturnsConversation(t *testing.T) {
	svc := newTestChatService(t, &llmclient.MockBackend{})
	h := NewRestHandler(svc)

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		History   []chat.Message `json:"history"`
		State     chat.State     `json:"state"`
		PlanReady bool           `json:"planReady"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.History) != 1 || body.History[0].Content != chat.GreetingInitial {
		t.Fatalf("history = %+v, want single greeting", body.History)
	}
	if body.State != chat.StateIdle {
		t.Fatalf("state = %s, want idle", body.State)
	}
}

func TestHandlePlanBeforeFinalizationIs404(t *testing.T) {
	svc := newTestChatService(t, &llmclient.MockBackend{})
	h := NewRestHandler(svc)

	rec := httptest.NewRecorder()
	h.HandlePlan(rec, httptest.NewRequest(http.MethodGet, "/api/plan", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePlanServesMarkdownAndHTML(t *testing.T) {
	planText := "### Project Overview\nA thing.\n### Phase 1: Foundation"
	backend := &llmclient.MockBackend{
		Replies: []chat.TurnResult{{Text: planText}},
	}
	svc := newTestChatService(t, backend)
	h := NewRestHandler(svc)

	svc.GeneratePlanNow(context.Background())
	waitForPlan(t, svc)

	rec := httptest.NewRecorder()
	h.HandlePlan(rec, httptest.NewRequest(http.MethodGet, "/api/plan", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != planText {
		t.Fatalf("plan body = %q (status %d)", rec.Body.String(), rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandlePlanHTML(rec, httptest.NewRequest(http.MethodGet, "/api/plan.html", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("plan.html status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h3") {
		t.Fatalf("plan.html body = %q, want rendered markdown", rec.Body.String())
	}
}

func TestHandleResetClearsConversation(t *testing.T) {
	backend := &llmclient.MockBackend{DefaultReply: "sure"}
	svc := newTestChatService(t, backend)
	h := NewRestHandler(svc)

	svc.SendUserTurn(context.Background(), "hello")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && svc.State() != chat.StateIdle {
		time.Sleep(5 * time.Millisecond)
	}

	rec := httptest.NewRecorder()
	h.HandleReset(rec, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	history := svc.History()
	if len(history) != 1 || history[0].Content != chat.GreetingReset {
		t.Fatalf("history after reset = %+v", history)
	}
}

func TestHandleResetRejectsGet(t *testing.T) {
	svc := newTestChatService(t, &llmclient.MockBackend{})
	h := NewRestHandler(svc)

	rec := httptest.NewRecorder()
	h.HandleReset(rec, httptest.NewRequest(http.MethodGet, "/api/reset", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
