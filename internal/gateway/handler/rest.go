package handler

import (
	"encoding/json"
	"net/http"

	"vibecoder/internal/chat"
	"vibecoder/internal/plan"
)

// RestHandler exposes read endpoints for the conversation and the plan, plus
// reset. Everything interactive goes over the websocket; these exist for
// exports and simple tooling (curl, the plan download button).
type RestHandler struct {
	svc *chat.Service
}

func NewRestHandler(svc *chat.Service) *RestHandler {
	return &RestHandler{svc: svc}
}

func (h *RestHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"history":   h.svc.History(),
		"state":     h.svc.State(),
		"planReady": h.svc.PlanReady(),
	})
}

func (h *RestHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := h.svc.Plan()
	if p == "" {
		http.Error(w, "no plan finalized yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(p))
}

func (h *RestHandler) HandlePlanHTML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := h.svc.Plan()
	if p == "" {
		http.Error(w, "no plan finalized yet", http.StatusNotFound)
		return
	}
	html, err := plan.RenderHTML(p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (h *RestHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.svc.ResetConversation(r.Context())
	writeJSON(w, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
