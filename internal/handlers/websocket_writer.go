package handlers

import (
	"strings"

	plog "github.com/phuslu/log"
	"github.com/ternarybob/arbor/levels"
	"github.com/ternarybob/arbor/models"

	"github.com/semkit/rolemark/internal/common"
)

const (
	// Default buffer size for WebSocket log queue
	defaultWebSocketBufferSize = 1000
)

// defaultExcludePatterns drops chatty log lines that would echo back
// through the socket they describe
var defaultExcludePatterns = []string{
	"WebSocket client connected",
	"WebSocket client disconnected",
	"HTTP request",
	"HTTP response",
	"Publishing event",
}

// WebSocketWriter consumes log event batches from the logger's named
// channel and broadcasts matching entries to WebSocket clients.
type WebSocketWriter struct {
	handler         *WebSocketHandler
	minLevel        levels.LogLevel
	excludePatterns []string
	batches         chan []models.LogEvent
	done            chan struct{}
}

// NewWebSocketWriter creates the log stream writer and starts its
// consumer goroutine. Attach GetChannel to the root logger with
// SetChannel to feed it.
func NewWebSocketWriter(handler *WebSocketHandler, wsConfig *common.WebSocketConfig) *WebSocketWriter {
	minLevel := levels.InfoLevel
	excludePatterns := defaultExcludePatterns

	if wsConfig != nil {
		minLevel = parseLogLevel(wsConfig.MinLevel)
		if len(wsConfig.ExcludePatterns) > 0 {
			excludePatterns = wsConfig.ExcludePatterns
		}
	}

	w := &WebSocketWriter{
		handler:         handler,
		minLevel:        minLevel,
		excludePatterns: excludePatterns,
		batches:         make(chan []models.LogEvent, defaultWebSocketBufferSize),
		done:            make(chan struct{}),
	}

	go func() {
		for {
			select {
			case batch := <-w.batches:
				for _, entry := range batch {
					w.process(entry)
				}
			case <-w.done:
				return
			}
		}
	}()

	return w
}

// GetChannel returns the log batch channel. Attach it to the root logger
// with SetChannel to stream logs to connected WebSocket clients.
func (w *WebSocketWriter) GetChannel() chan []models.LogEvent {
	return w.batches
}

// process filters a single log event and broadcasts it to clients
func (w *WebSocketWriter) process(entry models.LogEvent) {
	arborLevel := plogToArborLevel(entry.Level)

	if arborLevel < w.minLevel {
		return
	}

	for _, pattern := range w.excludePatterns {
		if strings.Contains(entry.Message, pattern) {
			return
		}
	}

	w.handler.BroadcastLog(LogEntry{
		Timestamp: entry.Timestamp.Format("15:04:05"),
		Level:     mapLevel(arborLevel),
		Message:   entry.Message,
	})
}

// plogToArborLevel converts phuslu/log.Level to arbor levels.LogLevel
func plogToArborLevel(level plog.Level) levels.LogLevel {
	switch level {
	case plog.ErrorLevel:
		return levels.ErrorLevel
	case plog.WarnLevel:
		return levels.WarnLevel
	case plog.InfoLevel:
		return levels.InfoLevel
	case plog.DebugLevel:
		return levels.DebugLevel
	default:
		return levels.InfoLevel
	}
}

// parseLogLevel converts string log level to arbor levels.LogLevel
func parseLogLevel(level string) levels.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return levels.ErrorLevel
	case "warn", "warning":
		return levels.WarnLevel
	case "info":
		return levels.InfoLevel
	case "debug":
		return levels.DebugLevel
	default:
		return levels.InfoLevel
	}
}

// mapLevel maps arbor log levels to UI strings
func mapLevel(level levels.LogLevel) string {
	switch level {
	case levels.ErrorLevel:
		return "error"
	case levels.WarnLevel:
		return "warn"
	case levels.InfoLevel:
		return "info"
	case levels.DebugLevel:
		return "debug"
	default:
		return "info"
	}
}

// Close stops the consumer goroutine
func (w *WebSocketWriter) Close() error {
	close(w.done)
	return nil
}
