package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/janpfeifer/TriMatch/internal/config"
	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/janpfeifer/TriMatch/internal/layout"
	"github.com/janpfeifer/TriMatch/internal/render"
	"github.com/janpfeifer/TriMatch/internal/templates"
	"github.com/janpfeifer/TriMatch/internal/viewer"
	"k8s.io/klog/v2"
)

// ServerState holds the deck currently previewed.
type ServerState struct {
	Address string // Set once the server is listening

	mu  sync.Mutex
	cfg config.Config
	set *templates.Set
}

// NewServerState builds the initial deck from cfg.
func NewServerState(cfg *config.Config) (*ServerState, error) {
	s := &ServerState{cfg: *cfg}
	if _, err := s.Regenerate(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the deck being previewed.
func (s *ServerState) Current() *templates.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Regenerate replaces the current deck by the one of seed. On error the
// current deck is kept.
func (s *ServerState) Regenerate(seed int64) (*templates.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	cfg.Seed = seed
	set, err := templates.Build(&cfg)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	s.set = set
	if viewer.State != nil {
		// Keeps prerendered pages current.
		viewer.State.SetSummary(set.Summary())
	}
	return set, nil
}

// HandleWS serves one viewer session: each request gets exactly one reply.
func (s *ServerState) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		klog.Errorf("HandleWS: accept failed: %v", err)
		return
	}
	defer conn.CloseNow()

	session := uuid.NewString()
	klog.V(1).Infof("Session %s: connected from %s", session, r.RemoteAddr)
	ctx := r.Context()
	for {
		var msg deck.WsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				klog.V(1).Infof("Session %s: closed", session)
			} else {
				klog.V(1).Infof("Session %s: read error: %v", session, err)
			}
			return
		}
		reply := s.handleMessage(session, msg)
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			klog.Errorf("Session %s: write error: %v", session, err)
			return
		}
	}
}

func (s *ServerState) handleMessage(session string, msg deck.WsMessage) deck.WsMessage {
	p, err := msg.Parse()
	if err != nil {
		klog.Warningf("Session %s: invalid message: %v", session, err)
		return errorMessage(err)
	}
	switch m := p.(type) {
	case *deck.GenerateMessage:
		set, err := s.Regenerate(m.Seed)
		if err != nil {
			klog.Errorf("Session %s: failed to generate deck with seed %d: %v", session, m.Seed, err)
			return errorMessage(err)
		}
		klog.Infof("Session %s: generated deck with seed %d", session, m.Seed)
		return deckMessage(set)
	case *deck.SummaryMessage:
		return deckMessage(s.Current())
	}
	return errorMessage(fmt.Errorf("unexpected message type %s", msg.Type))
}

func deckMessage(set *templates.Set) deck.WsMessage {
	msg, err := deck.NewWsMessage(deck.MsgTypeDeck, deck.DeckMessage{Summary: set.Summary()})
	if err != nil {
		return errorMessage(err)
	}
	return msg
}

func errorMessage(err error) deck.WsMessage {
	msg, merr := deck.NewWsMessage(deck.MsgTypeError, deck.ErrorMessage{Message: err.Error()})
	if merr != nil {
		return deck.WsMessage{Type: deck.MsgTypeError}
	}
	return msg
}

// HandlePage serves one side of a sheet of the current deck, as SVG or,
// with ?format=png, as a PNG proof.
func (s *ServerState) HandlePage(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid page %q", r.PathValue("page")), http.StatusBadRequest)
		return
	}
	side, err := layout.ParseSide(r.PathValue("side"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	set := s.Current()
	page, err := set.Page(number, side)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	contentType := "image/svg+xml"
	if r.URL.Query().Get("format") == "png" {
		contentType = "image/png"
		err = render.PNG(&buf, page, set.Config.DPI)
	} else {
		err = render.SVG(&buf, page, set.Config.Artwork.FontFamily)
	}
	if err != nil {
		klog.Errorf("HandlePage: failed to render page %d (%s): %v", number, side, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

// HandleSolution serves the solution record of the current deck.
func (s *ServerState) HandleSolution(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.Current().Solution.WriteTSV(&buf); err != nil {
		http.Error(w, "failed to write solution", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/tab-separated-values")
	w.Header().Set("Content-Disposition", `attachment; filename="`+templates.SolutionFile+`"`)
	w.Write(buf.Bytes())
}
