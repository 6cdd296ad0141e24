package http

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// WSHandler streams live summary updates for a session over a websocket.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type summaryFrame struct {
	Type    string         `json:"type"`
	Payload domain.Summary `json:"payload"`
}

// ServeSummary upgrades the connection and pushes the current summary,
// followed by a fresh one after each accepted answer for the session. The
// feed is read-only; answers are still submitted over POST /api/responses.
func (h *WSHandler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if _, err := uuid.Parse(sessionID); err != nil {
		http.Error(w, "missing or invalid sessionId", http.StatusBadRequest)
		return
	}

	updates, cancel, err := h.service.WatchSummary(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer cancel()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		// Inbound frames are ignored; the read loop only detects close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case summary, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(summaryFrame{Type: "summary", Payload: summary}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
