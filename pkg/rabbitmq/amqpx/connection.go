// Package amqpx holds a self-healing RabbitMQ connection and a publisher
// built on it.
package amqpx

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultReconnectInterval = 10 * time.Second

// ConnectionManager owns one AMQP connection and redials it when the broker
// drops it. Channels are opened per user.
type ConnectionManager struct {
	url      string
	interval time.Duration
	logger   Logger

	mu   sync.RWMutex
	conn *amqp.Connection

	stop chan struct{}
	once sync.Once
}

// NewConnectionManager dials url and starts watching the connection. A zero
// interval uses the default.
func NewConnectionManager(url string, interval time.Duration, logger Logger) (*ConnectionManager, error) {
	if logger == nil {
		logger = NewNoopLogger()
	}
	if interval <= 0 {
		interval = defaultReconnectInterval
	}
	m := &ConnectionManager{url: url, interval: interval, logger: logger, stop: make(chan struct{})}
	if _, err := m.connection(); err != nil {
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}
	go m.watch()
	return m, nil
}

func (m *ConnectionManager) connection() (*amqp.Connection, error) {
	m.mu.RLock()
	if m.conn != nil && !m.conn.IsClosed() {
		defer m.mu.RUnlock()
		return m.conn, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil && !m.conn.IsClosed() {
		return m.conn, nil
	}

	m.logger.Debug("Dialing RabbitMQ")
	conn, err := amqp.Dial(m.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	m.conn = conn
	m.logger.Info("Connected to RabbitMQ")
	return conn, nil
}

// Channel opens a fresh channel on the shared connection.
func (m *ConnectionManager) Channel() (*amqp.Channel, error) {
	conn, err := m.connection()
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	return ch, nil
}

func (m *ConnectionManager) watch() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		m.mu.RLock()
		healthy := m.conn != nil && !m.conn.IsClosed()
		m.mu.RUnlock()
		if healthy {
			continue
		}

		m.logger.Warn("RabbitMQ connection lost, reconnecting")
		if _, err := m.connection(); err != nil {
			m.logger.Error(err, "Reconnect failed")
		}
	}
}

// Close stops the watcher and closes the connection.
func (m *ConnectionManager) Close() error {
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil || m.conn.IsClosed() {
		return nil
	}
	if err := m.conn.Close(); err != nil {
		return fmt.Errorf("failed to close RabbitMQ connection: %w", err)
	}
	return nil
}

// Ping reports whether the connection is currently open.
func (m *ConnectionManager) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.conn == nil || m.conn.IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}
