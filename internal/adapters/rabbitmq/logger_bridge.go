package rabbitmq

import (
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/pkg/rabbitmq/amqpx"
)

// LoggerBridge lets the broker plumbing log through a LoggerPort.
type LoggerBridge struct {
	logger port.LoggerPort
}

func NewLoggerBridge(logger port.LoggerPort) amqpx.Logger {
	return &LoggerBridge{logger: logger.WithFields(port.Fields{"component": "rabbitmq"})}
}

func toFields(keysAndValues []interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}

func (b *LoggerBridge) Debug(msg string, kv ...interface{}) { b.logger.Debug(msg, toFields(kv)) }
func (b *LoggerBridge) Info(msg string, kv ...interface{})  { b.logger.Info(msg, toFields(kv)) }
func (b *LoggerBridge) Warn(msg string, kv ...interface{})  { b.logger.Warn(msg, toFields(kv)) }

func (b *LoggerBridge) Error(err error, msg string, kv ...interface{}) {
	b.logger.Error(msg, err, toFields(kv))
}
