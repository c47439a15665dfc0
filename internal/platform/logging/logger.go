// Package logging provides the structured logger shared by every
// examforge service, generalized from the ProductionLogger pattern: a
// Logger interface plus a component-aware implementation that writes
// JSON or human-readable lines depending on configuration.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Logger is the minimal structured-logging surface every package depends
// on. Context-aware variants exist so a correlation id carried on ctx can
// be attached without threading it through every field map by hand.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})

	InfoWithContext(ctx context.Context, msg string, fields map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, fields map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, fields map[string]interface{})
	DebugWithContext(ctx context.Context, msg string, fields map[string]interface{})
}

// ComponentAwareLogger yields a derived Logger tagged with a component
// name, so each service's logs can be filtered by "agent/<role>" or
// "framework/<subsystem>" the way kubectl | jq pipelines expect.
type ComponentAwareLogger interface {
	Logger
	WithComponent(component string) Logger
}

type correlationKey struct{}

// WithCorrelationID attaches a request-scoped correlation id to ctx; the
// *WithContext logging methods surface it as a "correlation_id" field.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID reads back the id set by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(correlationKey{}).(string); ok {
		return v
	}
	return ""
}

// Format selects the output rendering.
type Format string

const (
	FormatJSON  Format = "json"
	FormatHuman Format = "text"
)

// ServiceLogger is the concrete Logger/ComponentAwareLogger implementation.
type ServiceLogger struct {
	service   string
	component string
	level     string
	debug     bool
	format    Format
	output    io.Writer
}

// New creates a ServiceLogger for the given service name.
func New(service, level string, format Format, debug bool) *ServiceLogger {
	return &ServiceLogger{
		service: service,
		level:   strings.ToLower(level),
		debug:   debug || strings.ToLower(level) == "debug",
		format:  format,
		output:  os.Stdout,
	}
}

// WithComponent returns a derived logger tagged with component, sharing
// the parent's output/format/level.
func (l *ServiceLogger) WithComponent(component string) Logger {
	clone := *l
	clone.component = component
	return &clone
}

func (l *ServiceLogger) Info(msg string, fields map[string]interface{}) {
	l.log(context.Background(), "INFO", msg, fields)
}
func (l *ServiceLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(context.Background(), "WARN", msg, fields)
}
func (l *ServiceLogger) Error(msg string, fields map[string]interface{}) {
	l.log(context.Background(), "ERROR", msg, fields)
}
func (l *ServiceLogger) Debug(msg string, fields map[string]interface{}) {
	if l.debug {
		l.log(context.Background(), "DEBUG", msg, fields)
	}
}

func (l *ServiceLogger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, "INFO", msg, fields)
}
func (l *ServiceLogger) WarnWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, "WARN", msg, fields)
}
func (l *ServiceLogger) ErrorWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, "ERROR", msg, fields)
}
func (l *ServiceLogger) DebugWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	if l.debug {
		l.log(ctx, "DEBUG", msg, fields)
	}
}

func (l *ServiceLogger) log(ctx context.Context, level, msg string, fields map[string]interface{}) {
	ts := time.Now().Format(time.RFC3339)
	component := l.component
	if component == "" {
		component = "agent/" + l.service
	}
	corrID := CorrelationID(ctx)

	if l.format == FormatJSON {
		entry := map[string]interface{}{
			"timestamp": ts,
			"level":     level,
			"service":   l.service,
			"component": component,
			"message":   msg,
		}
		if corrID != "" {
			entry["correlation_id"] = corrID
		}
		for k, v := range fields {
			entry[k] = v
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(l.output, string(data))
		}
		return
	}

	var b strings.Builder
	for k, v := range fields {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	corrPart := ""
	if corrID != "" {
		corrPart = fmt.Sprintf("[corr=%s] ", corrID)
	}
	fmt.Fprintf(l.output, "%s [%s] [%s] %s%s%s\n", ts, level, component, corrPart, msg, b.String())
}
