// Package admin exposes diagnostic endpoints over the running engine.
// Unlike the published snapshot feed, its views include suppressed
// camps and hidden battles.
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"gatewatch/internal/engine"
)

type Server struct {
	Engine *engine.Engine
	mux    *http.ServeMux
}

func NewServer(eng *engine.Engine) *Server {
	s := &Server{Engine: eng, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/activities", s.handleActivities)
	s.mux.HandleFunc("/camps", s.handleCamps)
	s.mux.HandleFunc("/battles", s.handleBattles)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.Snapshot())
}

func (s *Server) handleCamps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.Camps())
}

func (s *Server) handleBattles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.Battles())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
