// Package viewer is the browser gallery of the preview server: it shows the
// pages and the solution of the current deck and asks the server for new
// decks over a websocket.
package viewer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// GlobalClientState holds the deck shown by the viewer and the connection to the server.
//
// On the server it is only used for prerendering, and the server keeps the
// summary up to date with SetSummary.
type GlobalClientState struct {
	mu      sync.Mutex
	summary *deck.Summary
	err     string
	conn    *websocket.Conn // nil when disconnected

	// Listeners for state updates, by component.
	listeners map[string]func()
}

var State *GlobalClientState

func InitState() {
	if State == nil {
		klog.V(1).Infof("InitState: creating new state (was nil)")
		State = &GlobalClientState{listeners: make(map[string]func())}
	} else {
		klog.V(1).Infof("InitState: state already exists")
	}
}

// Snapshot returns the current summary (nil before the first deck) and the last error.
func (s *GlobalClientState) Snapshot() (*deck.Summary, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary, s.err
}

// SetSummary replaces the current deck and clears any error.
func (s *GlobalClientState) SetSummary(summary deck.Summary) {
	s.mu.Lock()
	s.summary = &summary
	s.err = ""
	s.mu.Unlock()
	s.Notify()
}

// SetError records an error to show to the user.
func (s *GlobalClientState) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
	s.Notify()
}

func (s *GlobalClientState) AddListener(name string, l func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[name] = l
}

func (s *GlobalClientState) RemoveListener(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, name)
}

func (s *GlobalClientState) Notify() {
	s.mu.Lock()
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()
	klog.V(2).Infof("GlobalClientState: Notifying %d listeners", len(listeners))
	for _, l := range listeners {
		if l != nil {
			l()
		}
	}
}

// ConnectWS connects to the server and asks for the current deck.
func (s *GlobalClientState) ConnectWS() error {
	if old := s.Conn(); old != nil {
		klog.Infof("ConnectWS: Closing existing connection")
		old.CloseNow()
	}

	wsURL := fmt.Sprintf("ws://%s/ws", app.Window().URL().Host)
	klog.Infof("ConnectWS: Connecting to %s", wsURL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		klog.Errorf("ConnectWS: Dial failed: %v", err)
		return fmt.Errorf("dial failed: %w", err)
	}
	s.setConn(conn)

	msg, err := deck.NewWsMessage(deck.MsgTypeSummary, nil)
	if err != nil {
		return fmt.Errorf("failed to create summary message: %w", err)
	}
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		s.setConn(nil)
		conn.CloseNow()
		klog.Errorf("ConnectWS: Failed to send summary request: %v", err)
		return fmt.Errorf("failed to send summary request: %w", err)
	}

	go s.readLoop(conn)
	return nil
}

// Conn returns the connection to the server, or nil when disconnected.
func (s *GlobalClientState) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *GlobalClientState) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
}

// readLoop handles messages until conn fails, then forgets conn so that the
// next navigation reconnects.
func (s *GlobalClientState) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	klog.Infof("readLoop: started")
	for {
		var msg deck.WsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			klog.Errorf("readLoop: WS read error: %v", err)
			break
		}
		klog.V(1).Infof("readLoop: received message type: %s", msg.Type)
		s.handleMessage(msg)
	}

	s.mu.Lock()
	dropped := s.conn == conn
	if dropped {
		s.conn = nil
	}
	s.mu.Unlock()
	if dropped {
		conn.CloseNow()
		s.SetError("Connection to the server lost")
	}
}

func (s *GlobalClientState) handleMessage(msg deck.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		klog.Errorf("handleMessage: Failed to parse %s message: %v", msg.Type, err)
		return
	}
	switch m := p.(type) {
	case *deck.DeckMessage:
		klog.Infof("handleMessage: Deck updated. Seed %d, %d pages", m.Summary.Seed, m.Summary.Pages)
		s.SetSummary(m.Summary)
	case *deck.ErrorMessage:
		s.SetError(m.Message)
	default:
		klog.Warningf("handleMessage: Unexpected message type %s", msg.Type)
	}
}

// SendGenerate asks the server for a new deck from seed.
func (s *GlobalClientState) SendGenerate(seed int64) {
	conn := s.Conn()
	if conn == nil {
		s.SetError("Not connected to the server")
		return
	}
	msg, err := deck.NewWsMessage(deck.MsgTypeGenerate, deck.GenerateMessage{Seed: seed})
	if err != nil {
		klog.Errorf("SendGenerate: Failed to create generate message: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		klog.Errorf("SendGenerate: %v", err)
	}
}
