package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/psantana5/tictoc/pkg/logging"
)

// Server exposes the prober over HTTP: Prometheus metrics, health,
// and a JSON view of the latest samples.
type Server struct {
	httpSrv *http.Server
	log     *logging.Logger
}

// NewServer wires the prober routes onto addr.
func NewServer(addr string, prober *Prober, metrics *Metrics, log *logging.Logger) *Server {
	r := mux.NewRouter()
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/healthz", handleHealthz).Methods("GET")
	r.HandleFunc("/api/v1/timings", handleTimings(prober)).Methods("GET")

	return &Server{
		httpSrv: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe blocks serving HTTP until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.log.Info("probe server listening", map[string]interface{}{"addr": s.httpSrv.Addr})
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type timingsResponse struct {
	Samples []Sample `json:"samples"`
	Count   int      `json:"count"`
}

func handleTimings(prober *Prober) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples := prober.LastSamples()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(timingsResponse{
			Samples: samples,
			Count:   len(samples),
		})
	}
}
