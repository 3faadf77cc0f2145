// file: internal/server/logger.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

package server

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"time"
)

// OperationLogger tracks the lifecycle of a handler operation
type OperationLogger struct {
	handler   string
	method    string
	path      string
	startTime time.Time
	requestID string
	details   map[string]any
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(handler, method, path, requestID string) *OperationLogger {
	return &OperationLogger{
		handler:   handler,
		method:    method,
		path:      path,
		startTime: time.Now(),
		requestID: requestID,
		details:   make(map[string]any),
	}
}

// AddDetail adds a contextual detail to the operation log
func (ol *OperationLogger) AddDetail(key string, value any) {
	ol.details[key] = value
}

// LogSuccess logs the successful completion of the operation
func (ol *OperationLogger) LogSuccess(statusCode int) {
	log.Printf("[INFO] %s %s %s (%d) in %v%s [request-id: %s]",
		ol.handler, ol.method, ol.path, statusCode, time.Since(ol.startTime), ol.detailString(), ol.requestID)
}

// LogError logs an error that occurred during the operation
func (ol *OperationLogger) LogError(statusCode int, err error) {
	log.Printf("[ERROR] %s %s %s (%d) in %v: %v%s [request-id: %s]",
		ol.handler, ol.method, ol.path, statusCode, time.Since(ol.startTime), err, ol.detailString(), ol.requestID)
}

// LogWarning logs a warning message
func (ol *OperationLogger) LogWarning(message string) {
	log.Printf("[WARN] %s: %s [request-id: %s]", ol.handler, message, ol.requestID)
}

// detailString renders details sorted by key so log lines are stable.
func (ol *OperationLogger) detailString() string {
	if len(ol.details) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(ol.details)) {
		fmt.Fprintf(&b, " %s=%v", k, ol.details[k])
	}
	return b.String()
}
