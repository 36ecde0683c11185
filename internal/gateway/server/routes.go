package server

import (
	"net/http"

	"vibecoder/internal/gateway/handler"
	"vibecoder/internal/gateway/middleware"
)

func NewMux(
	chatWS *handler.ChatWSHandler,
	rest *handler.RestHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws/chat", chatWS.HandleChatWS)

	mux.HandleFunc("/api/history", rest.HandleHistory)
	mux.HandleFunc("/api/plan", rest.HandlePlan)
	mux.HandleFunc("/api/plan.html", rest.HandlePlanHTML)
	mux.HandleFunc("/api/reset", rest.HandleReset)

	return middleware.CORS(mux)
}
