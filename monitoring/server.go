package monitoring

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"s3client/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер для экспорта метрик Prometheus
type Server struct {
	config       *Config
	gatherer     prometheus.Gatherer
	server       *http.Server
	listener     net.Listener
	shuttingDown atomic.Bool
}

// NewServer создает новый сервер метрик. nil gatherer означает default registry.
func NewServer(config *Config, gatherer prometheus.Gatherer) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{config: config, gatherer: gatherer}
}

// Start запускает HTTP сервер для метрик
func (s *Server) Start() error {
	if !s.config.Enabled || s.config.ListenAddress == "" {
		logger.Debug("Metrics HTTP endpoint is disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health/live", s.liveHealthHandler)
	mux.HandleFunc("/health/ready", s.readyHealthHandler)

	// Слушаем синхронно, чтобы ошибка занятого порта вернулась вызывающему
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go func() {
		logger.Info("Metrics server listening on %s%s", ln.Addr(), s.config.MetricsPath)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed: %v", err)
		}
	}()

	return nil
}

// Addr возвращает фактический адрес сервера или пустую строку, если он не запущен
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop останавливает HTTP сервер метрик
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	logger.Debug("Stopping metrics server...")
	s.shuttingDown.Store(true)
	return s.server.Shutdown(ctx)
}

// liveHealthHandler обрабатывает запросы /health/live
func (s *Server) liveHealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok"}`)
}

// readyHealthHandler обрабатывает запросы /health/ready
func (s *Server) readyHealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.shuttingDown.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"shutting down"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok"}`)
}
