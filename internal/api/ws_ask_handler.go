package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"wikiqa/internal/retrieval"
)

// WebSocket events
const (
	EventStatus = "status"
	EventResult = "result"
	EventError  = "error"
)

type WSAskEvent struct {
	Event   string          `json:"event"`
	Message string          `json:"message,omitempty"`
	View    *retrieval.View `json:"view,omitempty"`
}

// wsMaxMessageBytes caps one Form frame; larger frames close the connection.
const wsMaxMessageBytes = 512 << 10

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/ask. Each text message is a Form; the server answers with a
// status event followed by the result.
func WSAskHandler(r *retrieval.Retriever) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(wsMaxMessageBytes)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[WS] read failed: %v", err)
				}
				return
			}

			var form retrieval.Form
			if err := json.Unmarshal(msg, &form); err != nil {
				if err := conn.WriteJSON(WSAskEvent{Event: EventError, Message: "invalid request"}); err != nil {
					return
				}
				continue
			}

			if err := conn.WriteJSON(WSAskEvent{Event: EventStatus, Message: retrieval.MsgSearching}); err != nil {
				return
			}
			view := r.Evaluate(c.Request.Context(), form)
			if err := conn.WriteJSON(WSAskEvent{Event: EventResult, View: &view}); err != nil {
				return
			}
		}
	}
}
