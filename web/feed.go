// Package web serves a live analysis feed: a websocket endpoint that
// accepts play/clear commands and pushes the connection state of the
// resulting position as JSON frames. Each connection owns its own
// board and builder, so clients never share mutable engine state.
package web

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/pattern"
	"github.com/hexforge/hexe/vc"
)

type command struct {
	Cmd   string `json:"cmd"` // "play", "clear"
	Color string `json:"color,omitempty"`
	Cell  string `json:"cell,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type frame struct {
	Board  string   `json:"board"`
	Size   int      `json:"size"`
	Fulls  []connTO `json:"fulls"`
	Semis  []connTO `json:"semis"`
	Stats  string   `json:"stats"`
	Winner string   `json:"winner,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type connTO struct {
	X       string   `json:"x"`
	Y       string   `json:"y"`
	Carrier []string `json:"carrier"`
}

type Server struct {
	Params   vc.Params
	Library  *pattern.Library
	upgrader websocket.Upgrader
}

func NewServer(params vc.Params, lib *pattern.Library) *Server {
	return &Server{
		Params:  params,
		Library: lib,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router mounts the feed endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWS)
	return r
}

type session struct {
	size    int
	pos     *hex.Position
	builder *vc.Builder
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	sess := &session{
		size:    11,
		builder: vc.NewBuilder(s.Params, s.Library),
	}
	sess.pos = hex.New(sess.size)

	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws read: %v", err)
			}
			return
		}
		f := sess.apply(&cmd)
		if err := conn.WriteJSON(f); err != nil {
			log.Printf("ws write: %v", err)
			return
		}
	}
}

func (sess *session) apply(cmd *command) frame {
	switch cmd.Cmd {
	case "clear":
		size := cmd.Size
		if size == 0 {
			size = sess.size
		}
		if size < 3 || size > hex.MaxSize {
			return frame{Error: "bad size"}
		}
		sess.size = size
		sess.pos = hex.New(size)
	case "play":
		color, err := hex.ParseColor(cmd.Color)
		if err != nil {
			return frame{Error: err.Error()}
		}
		cell, err := hex.ParseCell(cmd.Cell, sess.size)
		if err != nil {
			return frame{Error: err.Error()}
		}
		if cell.IsEdge() || sess.pos.At(cell) != hex.Empty {
			return frame{Error: "illegal move"}
		}
		sess.pos.Play(cell, color)
	default:
		return frame{Error: "unknown command"}
	}
	return sess.analyze()
}

func (sess *session) analyze() frame {
	f := frame{
		Board: sess.pos.String(),
		Size:  sess.size,
	}
	for _, color := range []hex.Color{hex.Black, hex.White} {
		set := vc.NewSet(color)
		groups := hex.BuildGroups(sess.pos)
		sess.builder.BuildStatic(set, groups, sess.builder.NewState(sess.pos))
		e1, e2 := hex.ColorEdge1(color), hex.ColorEdge2(color)
		f.Fulls = append(f.Fulls, sess.connections(set, vc.Full, e1, e2)...)
		f.Semis = append(f.Semis, sess.connections(set, vc.Semi, e1, e2)...)
		if set.Exists(e1, e2, vc.Full) {
			f.Winner = color.String()
		}
		f.Stats += color.String() + " " + sess.builder.Stats(color).String() + " "
	}
	return f
}

// connections reports the edge-to-edge lists, the ones a front end
// renders.
func (sess *session) connections(set *vc.Set, t vc.Type, x, y hex.Cell) []connTO {
	list := set.Lookup(t, x, y)
	if list == nil {
		return nil
	}
	var out []connTO
	for _, v := range list.VCs() {
		var carrier []string
		for i := v.Carrier.First(); i >= 0; i = v.Carrier.Next(i) {
			carrier = append(carrier, hex.FormatCell(hex.Cell(i), sess.size))
		}
		out = append(out, connTO{
			X:       hex.FormatCell(v.X, sess.size),
			Y:       hex.FormatCell(v.Y, sess.size),
			Carrier: carrier,
		})
	}
	return out
}

// ListenAndServe runs the feed on addr until the server errors.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("analysis feed listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}
