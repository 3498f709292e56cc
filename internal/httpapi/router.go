// Package httpapi exposes the chat service over HTTP: one endpoint to send
// a message to a session, plus session lifecycle and health routes.
package httpapi

import (
	"net/http"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent"
)

const serviceName = "Compass Chat API"

type handlers struct {
	agent   *agent.Agent
	version string
}

func NewRouter(a *agent.Agent, version string) http.Handler {
	h := &handlers{agent: a, version: version}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleHealth)
	mux.HandleFunc("POST /chat", h.handleChat)
	mux.HandleFunc("DELETE /chat/{session_id}", h.handleDeleteSession)
	mux.HandleFunc("GET /sessions", h.handleListSessions)
	return mux
}
