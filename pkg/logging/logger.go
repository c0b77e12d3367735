package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		level:  level,
		now:    time.Now,
		mu:     &sync.Mutex{},
	}
}

// log is the internal logging method
func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	fieldMap := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		fieldMap[f.Key] = f.Value
	}
	// Call-site fields override preset ones with the same key
	for _, f := range fields {
		fieldMap[f.Key] = f.Value
	}

	entry := LogEntry{
		Time:    l.now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(fieldMap) > 0 {
		entry.Fields = fieldMap
	}

	data, err := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		fmt.Fprintf(l.writer, "{\"level\":\"ERROR\",\"msg\":\"unencodable log entry\",\"cause\":%q}\n", err.Error())
		return
	}
	data = append(data, '\n')
	_, _ = l.writer.Write(data)
}

// Enabled reports whether level passes the logger's threshold
func (l *JSONLogger) Enabled(level Level) bool {
	return level >= l.level
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set
func (l *JSONLogger) With(fields ...Field) Logger {
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &JSONLogger{
		writer: l.writer,
		level:  l.level,
		fields: newFields,
		now:    l.now,
		mu:     l.mu,
	}
}

// OrNop returns logger, or a NopLogger when logger is nil
func OrNop(logger Logger) Logger {
	if logger == nil {
		return NopLogger{}
	}
	return logger
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: OrNop(logger),
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the operation started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at info level with its duration and extra fields
func (t *TimedOperation) End(fields ...Field) time.Duration {
	elapsed := t.Elapsed()
	all := append(append(append([]Field{}, t.fields...), fields...), Latency(elapsed))
	t.logger.Info(t.msg, all...)
	return elapsed
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := t.Elapsed()
	all := append(append([]Field{}, t.fields...), Latency(elapsed), Error(err))
	t.logger.Error(t.msg, all...)
	return elapsed
}
