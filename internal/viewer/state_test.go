package viewer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/TriMatch/internal/deck"
)

// oneDeckServer sends a single deck message to each connection and closes it.
func oneDeckServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		msg, _ := deck.NewWsMessage(deck.MsgTypeDeck, deck.DeckMessage{Summary: deck.Summary{Seed: 42, Pages: 3}})
		_ = wsjson.Write(r.Context(), conn, msg)
		conn.Close(websocket.StatusNormalClosure, "bye")
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestState() *GlobalClientState {
	return &GlobalClientState{listeners: make(map[string]func())}
}

func TestReadLoopForgetsDroppedConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := newTestState()
	notified := 0
	s.AddListener("test", func() { notified++ })

	conn, _, err := websocket.Dial(ctx, oneDeckServer(t), nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	s.setConn(conn)
	s.readLoop(conn) // Returns once the server closes the connection.

	if s.Conn() != nil {
		t.Errorf("Expected the dropped connection to be forgotten")
	}
	summary, errMsg := s.Snapshot()
	if summary == nil || summary.Seed != 42 || summary.Pages != 3 {
		t.Errorf("Expected the deck sent before closing, got %+v", summary)
	}
	if errMsg == "" {
		t.Errorf("Expected an error telling the connection was lost")
	}
	if notified != 2 {
		t.Errorf("Expected 2 notifications (deck and disconnection), got %d", notified)
	}
}

func TestReadLoopKeepsNewerConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := oneDeckServer(t)
	s := newTestState()
	old, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer old.CloseNow()
	newer, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer newer.CloseNow()

	s.setConn(newer)
	s.readLoop(old)
	if s.Conn() != newer {
		t.Errorf("A stale read loop must not drop the current connection")
	}
	if _, errMsg := s.Snapshot(); errMsg != "" {
		t.Errorf("Expected no error, got %q", errMsg)
	}
}

func TestSendGenerateWithoutConnection(t *testing.T) {
	s := newTestState()
	s.SendGenerate(7)
	if _, errMsg := s.Snapshot(); errMsg == "" {
		t.Errorf("Expected an error when generating while disconnected")
	}
}
