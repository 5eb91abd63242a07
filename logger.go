package ingredient

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LineLogger records the outcome of every ingredient line a batch run parses.
type LineLogger interface {
	LogLine(line LineLog) error
}

// NewLineLogFilePath returns a file path under dir named after the recipe so logs from
// several runs are easy to tell apart.
func NewLineLogFilePath(dir, recipe string) string {
	name := strings.ToLower(strings.TrimSpace(recipe))
	if name == "" {
		name = "recipe"
	}
	name = strings.NewReplacer(" ", "_", "/", "_", ":", "_").Replace(name)
	return fmt.Sprintf("%s/%d.%s.json", strings.TrimRight(dir, "/"), time.Now().Unix(), name)
}

// LineLog is a single parsed (or rejected) ingredient line.
type LineLog struct {
	Recipe     string      `json:"recipe,omitempty"`
	Line       int         `json:"line"`
	Timestamp  time.Time   `json:"timestamp"`
	Input      string      `json:"input"`
	Ingredient *Ingredient `json:"ingredient,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// FileLineLogger accumulates lines and writes them out on Flush. It is safe for
// concurrent use.
type FileLineLogger struct {
	mu     sync.Mutex
	lines  []LineLog
	writer io.Writer
}

func NewFileLineLogger(writer io.Writer) *FileLineLogger {
	return &FileLineLogger{
		lines:  make([]LineLog, 0),
		writer: writer,
	}
}

// LogLine buffers line until the next Flush.
func (l *FileLineLogger) LogLine(line LineLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	return nil
}

// Flush writes all buffered lines to the writer as one JSON document.
func (l *FileLineLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"batch_session": map[string]any{
			"timestamp": time.Now(),
			"lines":     l.lines,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal line log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write line log: %w", err)
	}

	l.lines = l.lines[:0]
	return nil
}

// NoOpLineLogger discards everything.
type NoOpLineLogger struct{}

func NewNoOpLineLogger() *NoOpLineLogger {
	return &NoOpLineLogger{}
}

func (nop *NoOpLineLogger) LogLine(line LineLog) error {
	return nil
}

// StdoutLineLogger writes each line as a JSON line, which is what CloudWatch wants
// when running in Lambda.
type StdoutLineLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdoutLineLogger writes to w, or to stdout when w is nil.
func NewStdoutLineLogger(w io.Writer) *StdoutLineLogger {
	if w == nil {
		w = os.Stdout
	}
	return &StdoutLineLogger{w: w}
}

func (l *StdoutLineLogger) LogLine(line LineLog) error {
	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = fmt.Fprintln(l.w, string(data))
	return err
}
