// Package activity is the informational notification sink. Recording is
// best effort: the engine keeps playing if a sink fails.
package activity

import "github.com/charmbracelet/log"

// Kinds of activity records the engine emits.
const (
	KindWin        = "win"
	KindSuccession = "succession"
)

// Sink receives informational activity records.
type Sink interface {
	Record(playerID, kind, message string) error
}

// LogSink writes activity records to a logger.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a Sink backed by the given logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger.WithPrefix("activity")}
}

// Record implements Sink.
func (s *LogSink) Record(playerID, kind, message string) error {
	s.logger.Info(message, "player", playerID, "kind", kind)
	return nil
}

// Nop is a Sink that discards everything.
type Nop struct{}

// Record implements Sink.
func (Nop) Record(string, string, string) error { return nil }
