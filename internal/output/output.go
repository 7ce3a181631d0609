package output

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type Output interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Println(s string)
}

type StreamingOutput struct {
	writer  io.Writer
	verbose bool
	mu      sync.Mutex
}

func NewStreamingOutput(writer io.Writer, verbose bool) *StreamingOutput {
	if writer == nil {
		writer = os.Stdout
	}
	return &StreamingOutput{writer: writer, verbose: verbose}
}

func (o *StreamingOutput) Info(format string, args ...interface{}) {
	if !o.verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, format+"\n", args...)
}

func (o *StreamingOutput) Warning(format string, args ...interface{}) {
	if !o.verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "warning: "+format+"\n", args...)
}

// Error always prints, verbose or not.
func (o *StreamingOutput) Error(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "error: "+format+"\n", args...)
}

func (o *StreamingOutput) Debug(format string, args ...interface{}) {
	if !o.verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "[debug] "+format+"\n", args...)
}

func (o *StreamingOutput) Println(s string) {
	if !o.verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.writer, s)
}

// NoOpOutput is a no-op implementation for tests
type NoOpOutput struct{}

func NewNoOpOutput() *NoOpOutput {
	return &NoOpOutput{}
}

func (o *NoOpOutput) Info(format string, args ...interface{})    {}
func (o *NoOpOutput) Warning(format string, args ...interface{}) {}
func (o *NoOpOutput) Error(format string, args ...interface{})   {}
func (o *NoOpOutput) Debug(format string, args ...interface{})   {}
func (o *NoOpOutput) Println(s string)                           {}
