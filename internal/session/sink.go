package session

import (
	"fmt"
	"io"
	"sync"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message that front-ends surface prominently, a dialog in the
// desktop shell or a highlighted line in a terminal.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Sink receives the progress log and notices of a session.
type Sink interface {
	Log(line string)
	Notify(n Notice)
}

// WriterSink writes log lines and notices to a writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink that writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Log(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

func (s *WriterSink) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.Title == "" {
		fmt.Fprintf(s.w, "[%s] %s\n", n.Level, n.Message)
		return
	}
	fmt.Fprintf(s.w, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
}

// RecordingSink keeps everything it receives in memory.
type RecordingSink struct {
	mu      sync.Mutex
	lines   []string
	notices []Notice
}

func (s *RecordingSink) Log(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *RecordingSink) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// Lines returns a copy of the received log lines.
func (s *RecordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Notices returns a copy of the received notices.
func (s *RecordingSink) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.notices...)
}

type discardSink struct{}

func (discardSink) Log(string)    {}
func (discardSink) Notify(Notice) {}
