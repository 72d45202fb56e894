package api

import (
	"encoding/json"
	"strings"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"wikiqa/internal/qa"
	"wikiqa/internal/retrieval"
)

func dialAsk(t *testing.T, ret *retrieval.Retriever) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/ask", WSAskHandler(ret))

	s := httptest.NewServer(r)
	t.Cleanup(s.Close)

	wsURL := "ws" + s.URL[4:] + "/ws/ask"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) WSAskEvent {
	t.Helper()
	var ev WSAskEvent
	if err := ws.ReadJSON(&ev); err != nil {
		t.Fatalf("WebSocket read failed: %v", err)
	}
	return ev
}

func TestWSAskHandler_StatusThenResult(t *testing.T) {
	ret := retrieval.New(&stubAnswerer{res: &qa.Result{Answer: "Paris", Candidates: []string{"Paris"}}}, &stubWiki{}, nil, "", 128)
	ws := dialAsk(t, ret)

	form := retrieval.Form{OriginalText: "The Eiffel Tower is in Paris.", Question: "Where is the tower?"}
	b, _ := json.Marshal(form)
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("WebSocket write failed: %v", err)
	}

	status := readEvent(t, ws)
	if status.Event != EventStatus || status.Message != retrieval.MsgSearching {
		t.Errorf("expected status event first, got: %+v", status)
	}
	result := readEvent(t, ws)
	if result.Event != EventResult || result.View == nil {
		t.Fatalf("expected result event with view, got: %+v", result)
	}
	if result.View.Banner == nil || result.View.Banner.Text != "Paris" {
		t.Errorf("expected answer banner, got: %+v", result.View.Banner)
	}
}

func TestWSAskHandler_InvalidJSON(t *testing.T) {
	ret := retrieval.New(&stubAnswerer{}, &stubWiki{}, nil, "", 128)
	ws := dialAsk(t, ret)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("WebSocket write failed: %v", err)
	}
	ev := readEvent(t, ws)
	if ev.Event != EventError || ev.Message != "invalid request" {
		t.Errorf("expected invalid request error, got: %+v", ev)
	}

	// The connection stays usable after a bad message.
	b, _ := json.Marshal(retrieval.Form{OriginalText: "text"})
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("WebSocket write failed: %v", err)
	}
	readEvent(t, ws)
	result := readEvent(t, ws)
	if result.View == nil || result.View.Banner == nil || result.View.Banner.Text != retrieval.MsgNeedQuestion {
		t.Errorf("expected question prompt, got: %+v", result.View)
	}
}

func TestWSAskHandler_OversizedFrameCloses(t *testing.T) {
	ret := retrieval.New(&stubAnswerer{}, &stubWiki{}, nil, "", 128)
	ws := dialAsk(t, ret)

	b, _ := json.Marshal(retrieval.Form{OriginalText: strings.Repeat("a", wsMaxMessageBytes+1), Question: "What?"})
	// The server may hang up before the whole frame is written.
	_ = ws.WriteMessage(websocket.TextMessage, b)

	if _, _, err := ws.ReadMessage(); err == nil {
		t.Fatalf("expected connection to close after an oversized frame")
	}
}
