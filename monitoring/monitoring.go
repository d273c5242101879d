package monitoring

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"s3client/logger"
)

// Monitor представляет основной интерфейс модуля мониторинга
type Monitor struct {
	config   *Config
	gatherer prometheus.Gatherer
	server   *Server
}

// New создает новый экземпляр Monitor поверх default registry
func New(config *Config) (*Monitor, error) {
	return NewWithGatherer(config, prometheus.DefaultGatherer)
}

// NewWithGatherer создает Monitor, который экспортирует метрики указанного источника
func NewWithGatherer(config *Config, gatherer prometheus.Gatherer) (*Monitor, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monitoring config: %w", err)
	}

	monitor := &Monitor{
		config:   config,
		gatherer: gatherer,
		server:   NewServer(config, gatherer),
	}

	logger.Debug("Monitoring config: enabled=%v, listen=%s, path=%s, textfile=%s",
		config.Enabled, config.ListenAddress, config.MetricsPath, config.TextfilePath)

	return monitor, nil
}

// Start запускает модуль мониторинга
func (m *Monitor) Start() error {
	if !m.config.Enabled {
		logger.Debug("Monitoring is disabled")
		return nil
	}

	if err := m.server.Start(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	logger.Debug("Monitoring module started")
	return nil
}

// Stop останавливает HTTP сервер и записывает textfile, если он настроен
func (m *Monitor) Stop(ctx context.Context) error {
	if !m.config.Enabled {
		return nil
	}

	if err := m.server.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop metrics server: %w", err)
	}

	if m.config.TextfilePath != "" {
		if err := prometheus.WriteToTextfile(m.config.TextfilePath, m.gatherer); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
		logger.Debug("Metrics written to %s", m.config.TextfilePath)
	}

	logger.Debug("Monitoring module stopped")
	return nil
}

// GetConfig возвращает конфигурацию мониторинга
func (m *Monitor) GetConfig() *Config {
	return m.config
}

// IsEnabled возвращает true, если мониторинг включен
func (m *Monitor) IsEnabled() bool {
	return m.config.Enabled
}

// Addr возвращает адрес HTTP сервера метрик
func (m *Monitor) Addr() string {
	return m.server.Addr()
}
