// Package api provides the HTTP status and configuration surface plus the
// WebSocket monitor feed.
package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"padbridge/internal/config"
	"padbridge/internal/motion"
	"padbridge/internal/server"
	"padbridge/internal/session"
)

// Server serves read-only status plus live configuration updates. Smoothing
// changes submitted here take effect without a restart.
type Server struct {
	configMgr *config.Manager
	store     *session.Store
	engine    *motion.Engine
	metrics   *server.Metrics
	hub       *Hub
	log       *zap.SugaredLogger

	started time.Time
	httpSrv *http.Server
}

// NewServer creates an API server; call Start to bind it.
func NewServer(configMgr *config.Manager, store *session.Store, engine *motion.Engine,
	metrics *server.Metrics, log *zap.SugaredLogger) *Server {
	s := &Server{
		configMgr: configMgr,
		store:     store,
		engine:    engine,
		metrics:   metrics,
		log:       log,
		started:   time.Now(),
	}
	s.hub = newHub(log)
	return s
}

// Hub exposes the WebSocket hub so the dispatcher's event callback can be
// wired to it.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins serving on the configured port. It returns once the listener
// is bound; serving continues on a background goroutine.
func (s *Server) Start(port int) error {
	go s.hub.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/ws", s.hub.handleWebSocket)

	addr := fmt.Sprintf("0.0.0.0:%d", port)
	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return err
	}
	s.log.Infof("API server listening on %s", addr)

	s.httpSrv = &http.Server{Handler: s.recoverMiddleware(mux)}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("API server stopped: %v", err)
		}
	}()
	return nil
}

// Stop shuts the HTTP server and the WebSocket hub down.
func (s *Server) Stop() {
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
	s.hub.stop()
}

// recoverMiddleware prevents a handler panic from crashing the process.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Errorf("Recovered panic in API handler: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"uptime_sec":       int64(time.Since(s.started).Seconds()),
		"sessions":         s.store.Snapshot(),
		"smoothing_policy": s.engine.Preset().Name,
		"ws_clients":       s.hub.clientCount(),
	})
}

// handleConfig handles GET (read) and POST (update) for configuration.
// A POST applies the smoothing policy immediately.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		cfg := s.configMgr.Get()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)

	case "POST":
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			http.Error(w, "Invalid configuration data", http.StatusBadRequest)
			return
		}

		s.log.Infof("Configuration update from %s", r.RemoteAddr)

		s.configMgr.Set(newCfg)
		if err := s.configMgr.Save(); err != nil {
			s.log.Errorf("Failed to save config: %v", err)
			http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
			return
		}

		sc := newCfg.Smoothing
		s.engine.SetPreset(motion.PresetWith(sc.Policy, sc.Sensitivity, sc.MaxSpeed, sc.DeltaGain))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.metrics.Snapshot())
}
