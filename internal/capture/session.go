package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Session records one connection in memory and hands the finished capture
// to its sinks.
type Session struct {
	name  string
	sinks []Sink

	mu       sync.Mutex
	buf      bytes.Buffer
	recorder *Recorder
	finished bool
}

// NewSession creates a session whose capture is stored as name+FileExt.
func NewSession(name string, sinks []Sink, opts ...RecorderOption) *Session {
	s := &Session{name: name + FileExt, sinks: sinks}
	s.recorder = NewRecorder(lockedWriter{s}, opts...)
	return s
}

// Name returns the capture file name.
func (s *Session) Name() string {
	return s.name
}

// Recorder returns the observer to register on the manager.
func (s *Session) Recorder() *Recorder {
	return s.recorder
}

// Finish stores the capture in every sink. It can only be called once.
// All sinks are tried; the errors are joined.
func (s *Session) Finish(ctx context.Context, logger *slog.Logger) error {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return errors.New("capture: session already finished")
	}
	s.finished = true
	data := bytes.Clone(s.buf.Bytes())
	s.mu.Unlock()

	if err := s.recorder.Err(); err != nil {
		return fmt.Errorf("capture: recording failed: %w", err)
	}

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Store(ctx, s.name, data); err != nil {
			errs = append(errs, err)
			continue
		}
		if logger != nil {
			logger.Info("capture stored", "name", s.name, "records", s.recorder.Count(), "bytes", len(data), "sink", fmt.Sprintf("%T", sink))
		}
	}
	return errors.Join(errs...)
}

// lockedWriter appends to the session buffer until Finish.
type lockedWriter struct {
	s *Session
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	if w.s.finished {
		return 0, errors.New("capture: session finished")
	}
	return w.s.buf.Write(p)
}
