package metrics

import (
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Click metrics
	ClicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clickbreak_clicks_total",
			Help: "Clicks received, by source and whether they were counted",
		},
		[]string{"source", "result"},
	)

	// Break metrics
	BreaksStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clickbreak_breaks_started_total",
			Help: "Breaks started after reaching the click goal",
		},
	)

	BreaksEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clickbreak_breaks_ended_total",
			Help: "Breaks ended, by reason",
		},
		[]string{"reason"},
	)

	// System-wide tracking metrics
	SystemWideFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clickbreak_system_wide_failures_total",
			Help: "Failed attempts to start system-wide click capture",
		},
		[]string{"mechanism"},
	)

	SystemWideActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clickbreak_system_wide_active",
			Help: "Whether system-wide click capture is running (1) or not (0)",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ClicksTotal,
		BreaksStarted,
		BreaksEnded,
		SystemWideFailures,
		SystemWideActive,
	)
}

type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener
}

func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// Start binds the listen address and serves in the background. Bind errors are
// returned so the caller can log and continue without metrics.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("Starting metrics server")

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
