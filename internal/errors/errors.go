// Package errors defines docwalk's non-fatal problem taxonomy and a
// concurrency-safe collector for aggregating problems across a run. Per-file
// failures never abort a run: the scanner records them here and continues
// with the remaining documents.
package errors

import (
	"fmt"
	"sync"
	"time"
)

// Severity classifies how a collected problem affects the run outcome.
type Severity int

const (
	// SeverityWarning problems are reported and gate the exit code only in
	// strict mode (unterminated fences, and similar structural issues)
	SeverityWarning Severity = iota
	// SeverityError problems gate the exit code (dangling links)
	SeverityError
	// SeverityIO marks a document that could not be read; fatal only for
	// that document
	SeverityIO
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityIO:
		return "io-error"
	default:
		return "unknown"
	}
}

// ScanError is a problem tied to one document.
type ScanError struct {
	Path      string
	Line      int
	Message   string
	Severity  Severity
	Timestamp time.Time
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Severity, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Severity, e.Message)
}

// Collector accumulates scan errors from concurrent extraction workers.
type Collector struct {
	errors []ScanError
	mutex  sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{errors: make([]ScanError, 0)}
}

// Add records a scan error.
func (c *Collector) Add(err ScanError) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	err.Timestamp = time.Now()
	c.errors = append(c.errors, err)
}

// AddIOError records a read failure for a single document.
func (c *Collector) AddIOError(path string, cause error) {
	c.Add(ScanError{
		Path:     path,
		Message:  cause.Error(),
		Severity: SeverityIO,
	})
}

// All returns a copy of every collected error.
func (c *Collector) All() []ScanError {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]ScanError, len(c.errors))
	copy(result, c.errors)
	return result
}

// BySeverity returns collected errors matching the given severity.
func (c *Collector) BySeverity(severity Severity) []ScanError {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	var result []ScanError
	for _, err := range c.errors {
		if err.Severity == severity {
			result = append(result, err)
		}
	}
	return result
}

// HasErrors reports whether anything was collected.
func (c *Collector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.errors) > 0
}

// Clear drops all collected errors, for reuse between watch-mode runs.
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = c.errors[:0]
}
