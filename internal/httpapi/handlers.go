package httpapi

import (
	"net/http"
	"strings"

	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

type deleteSessionResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

type listSessionsResponse struct {
	ActiveSessions []string `json:"active_sessions"`
	Count          int      `json:"count"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: serviceName,
		Version: h.version,
	})
}

func (h *handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeInvalidRequest(w, "session_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeInvalidRequest(w, "message is required")
		return
	}

	answer, err := h.agent.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		logx.Error().Err(err).Str("session_id", req.SessionID).Msg("chat turn failed")
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: req.SessionID,
		Response:  answer,
	})
}

func (h *handlers) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	deleted, err := h.agent.Sessions().Delete(r.Context(), sessionID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	status := "deleted"
	if !deleted {
		// unknown id is reported, not treated as an error
		status = "not_found"
	}
	writeJSON(w, http.StatusOK, deleteSessionResponse{
		Status:    status,
		SessionID: sessionID,
	})
}

func (h *handlers) handleListSessions(w http.ResponseWriter, r *http.Request) {
	active := h.agent.Sessions().List()
	writeJSON(w, http.StatusOK, listSessionsResponse{
		ActiveSessions: active,
		Count:          len(active),
	})
}
