package cli

import (
	"fmt"
	"io"
	"sync"

	"extsort/internal/session"
)

// Sink prints session notices to a terminal. Log lines are only shown in
// verbose mode since the command prints its own summary.
type Sink struct {
	mu      sync.Mutex
	out     io.Writer
	paint   Painter
	verbose bool
}

var _ session.Sink = (*Sink)(nil)

// NewSink creates a terminal sink writing to out.
func NewSink(out io.Writer, verbose bool) *Sink {
	return &Sink{out: out, paint: NewPainter(out), verbose: verbose}
}

func (s *Sink) Log(line string) {
	if !s.verbose {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, s.paint.Status(line))
}

func (s *Sink) Notify(n session.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := n.Message
	if n.Title != "" {
		msg = n.Title + ": " + msg
	}
	switch n.Level {
	case session.LevelError:
		msg = s.paint.Error(msg)
	case session.LevelWarning:
		msg = s.paint.Warning(msg)
	default:
		msg = s.paint.Success(msg)
	}
	fmt.Fprintln(s.out, msg)
}
