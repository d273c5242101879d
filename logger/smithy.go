package logger

import (
	"github.com/aws/smithy-go/logging"
)

// SmithyLogger адаптирует Logger к интерфейсу logging.Logger из smithy-go,
// чтобы сообщения AWS SDK (разрешение профилей, кэш учетных данных)
// попадали в тот же вывод, что и сообщения клиента.
type SmithyLogger struct {
	target *Logger
}

// NewSmithyLogger создает адаптер поверх указанного логгера.
// nil означает глобальный логгер.
func NewSmithyLogger(target *Logger) *SmithyLogger {
	if target == nil {
		target = globalLogger
	}
	return &SmithyLogger{target: target}
}

// Logf реализует logging.Logger
func (s *SmithyLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	switch classification {
	case logging.Warn:
		s.target.Warn("aws-sdk: "+format, v...)
	default:
		s.target.Debug("aws-sdk: "+format, v...)
	}
}

var _ logging.Logger = (*SmithyLogger)(nil)
