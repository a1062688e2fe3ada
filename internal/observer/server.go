package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/level"
	"github.com/gritfps/sim/internal/world"
)

// Server exposes the running match over websocket: a periodic HUD stream out,
// JSON intents in. Intents are translated to queue events, so an observer can
// never touch simulation state directly or out of order.
type Server struct {
	lvl      *level.Level
	log      *zap.Logger
	interval time.Duration

	httpSrv  *http.Server
	upgrader websocket.Upgrader
}

// Intent is the inbound message envelope. Type selects the variant; the
// remaining fields are variant-specific.
type Intent struct {
	Type string `json:"type"`

	Volume   float32     `json:"volume,omitempty"`
	BotKind  string      `json:"bot_kind,omitempty"`
	Position engine.Vec3 `json:"position,omitempty"`
}

func NewServer(lvl *level.Level, addr string, interval time.Duration, log *zap.Logger) *Server {
	s := &Server{
		lvl:      lvl,
		log:      log,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Run serves until Shutdown. Blocking; callers start it on its own goroutine.
func (s *Server) Run() error {
	s.log.Info("observer listening", zap.String("addr", s.httpSrv.Addr))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	s.log.Info("observer connected", zap.String("remote", conn.RemoteAddr().String()))

	go s.readIntents(conn)
	s.streamHUD(conn)
}

// streamHUD pushes the HUD read model at the configured interval until the
// connection dies.
func (s *Server) streamHUD(conn *websocket.Conn) {
	defer conn.Close()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(s.lvl.HUD()); err != nil {
			s.log.Info("observer disconnected", zap.Error(err))
			return
		}
	}
}

// readIntents decodes inbound messages and forwards them to the event queue.
// Unknown types are logged and dropped; a malformed frame ends the session.
func (s *Server) readIntents(conn *websocket.Conn) {
	sender := s.lvl.Intents()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var in Intent
		if err := json.Unmarshal(msg, &in); err != nil {
			s.log.Warn("observer sent malformed intent", zap.Error(err))
			conn.Close()
			return
		}

		switch in.Type {
		case "new_game":
			sender.Send(world.StartNewGame{})
		case "set_music_volume":
			sender.Send(world.SetMusicVolume{Volume: in.Volume})
		case "spawn_bot":
			kind, ok := world.ParseBotKind(in.BotKind)
			if !ok {
				s.log.Warn("observer sent unknown bot kind", zap.String("kind", in.BotKind))
				continue
			}
			sender.Send(world.SpawnBot{Kind: kind, Position: in.Position})
		default:
			s.log.Warn("observer sent unknown intent", zap.String("type", in.Type))
		}
	}
}
