package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-go-golems/papertalk/pkg/conversation"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

//go:embed static/*
var staticFS embed.FS

// Server serves the single page UI. Every websocket connection is one
// session with its own controller; nothing is shared between sessions.
type Server struct {
	summarizer conversation.Summarizer
	upgrader   websocket.Upgrader
}

func NewServer(s conversation.Summarizer) *Server {
	return &Server{
		summarizer: s,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.handleSession)
	mux.HandleFunc("/health/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return mux
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sess := newSession(conn, conversation.NewController(s.summarizer))
	log.Debug().Str("session_id", sess.id).Str("remote", r.RemoteAddr).Msg("session started")
	sess.run(r.Context())
	log.Debug().Str("session_id", sess.id).Msg("session ended")
}

// Run listens on addr until ctx is cancelled, then shuts the server down.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "server shutdown")
		}
		log.Info().Msg("server shutdown complete")
		return nil
	})
	eg.Go(func() error {
		log.Info().Str("addr", addr).Msg("starting papertalk web server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server listen")
		}
		return nil
	})
	return eg.Wait()
}
