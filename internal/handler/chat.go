package handler

import (
	"net/http"

	"propchat/internal/model"
	"propchat/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles conversational turns over HTTP.
type ChatHandler struct {
	store *service.SessionStore
}

// NewChatHandler creates a new chat handler
func NewChatHandler(store *service.SessionStore) *ChatHandler {
	return &ChatHandler{store: store}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sessionID, session := h.store.GetOrCreate(req.SessionID)

	// The session contract guarantees a reply even when the catalog is
	// down; a provider error degrades the reply but is not a failure.
	resp, _ := session.Handle(c.Request.Context(), req.Message)
	resp.SessionID = sessionID

	c.JSON(http.StatusOK, resp)
}

// GetSession handles GET /api/v1/sessions/:id
func (h *ChatHandler) GetSession(c *gin.Context) {
	session := h.store.Get(c.Param("id"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": c.Param("id"),
		"context":    session.Context(),
	})
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
