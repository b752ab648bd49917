package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server отдаёт метрики Prometheus и состояние сервиса. Поднимается и ботом,
// и импортёром на своём порту.
type Server struct {
	server    *http.Server
	logger    *slog.Logger
	service   string
	port      int
	startedAt time.Time
}

type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

func NewServer(service string, port int, logger *slog.Logger) *Server {
	s := &Server{
		logger:    logger,
		service:   service,
		port:      port,
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(healthStatus{
		Status:  "ok",
		Service: s.service,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Запуск сервера метрик",
		"service", s.service,
		"port", s.port,
	)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Ошибка при остановке сервера метрик", "error", err)
		}
	}()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ошибка сервера метрик: %w", err)
	}

	s.logger.Info("Сервер метрик остановлен", "service", s.service)

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
