// Package ingest exposes the HTTP endpoint that feeds kills into the
// classification engine.
package ingest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gatewatch/internal/engine"
	"gatewatch/internal/killmail"
	"gatewatch/internal/logging"
	"gatewatch/internal/sink"
)

// killResponse is the body returned for accepted kills.
type killResponse struct {
	KillID    int64 `json:"kill_id"`
	Duplicate bool  `json:"duplicate"`
}

// NewRouter wires the ingest endpoints.
//
// POST /kills
// - Idempotent: re-posting a killmail_id already seen returns 200
// - 201 for newly classified kills
// An optional archive writer records every accepted kill for replay.
func NewRouter(eng *engine.Engine, archive sink.KillWriter) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/kills", func(c *gin.Context) {
		var k killmail.Kill
		if err := c.ShouldBindJSON(&k); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		if k.ID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "killmail_id required"})
			return
		}
		if k.SolarSystemID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "solar_system_id required"})
			return
		}
		if k.Time.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "killmail_time required"})
			return
		}

		accepted := eng.Ingest(&k)
		if accepted && archive != nil {
			if err := archive.WriteKill(&k); err != nil {
				logging.FromContext(c.Request.Context()).Error("kill archive write failed", "kill_id", k.ID, "err", err)
			}
		}

		// 201 for new kills, 200 for duplicates (idempotent success).
		status := http.StatusCreated
		if !accepted {
			status = http.StatusOK
		}
		c.JSON(status, killResponse{KillID: k.ID, Duplicate: !accepted})
	})

	return r
}

// Serve runs the ingest server until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

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
