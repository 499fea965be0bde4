package capture

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/webmajiang/mjnet/pkg/client"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

// FileExt is the extension of capture files.
const FileExt = ".mjcap"

var (
	// ErrTruncated is returned by Reader.Next when a record is cut short.
	ErrTruncated = errors.New("capture: truncated record")

	// ErrBadDirection is returned by Reader.Next for an unknown direction byte.
	ErrBadDirection = errors.New("capture: bad direction")
)

// Record is one captured frame.
type Record struct {
	Dir   client.Direction
	Time  time.Time
	Frame []byte
}

// Recorder writes every observed frame to an io.Writer. Each record is
//
//	[direction byte][unix nanos varint64][length varint32][frame]
//
// Recorder implements client.FrameObserver. Write errors are logged and
// the first one is kept; later frames are dropped.
type Recorder struct {
	w      io.Writer
	clock  clock.Clock
	logger *slog.Logger
	pool   *protocol.BufferPool

	mu    sync.Mutex
	count int
	err   error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the clock used to timestamp records.
func WithClock(c clock.Clock) RecorderOption {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		w:      w,
		clock:  clock.New(),
		logger: slog.Default(),
		pool:   protocol.NewBufferPool(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "capture")
	return r
}

// ObserveFrame records one frame.
func (r *Recorder) ObserveFrame(dir client.Direction, frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}

	err := r.pool.With(func(bb *protocol.ByteBuffer) error {
		bb.WriteByte(byte(dir))
		bb.WriteVarint64(protocol.LongFromInt64(r.clock.Now().UnixNano()))
		bb.WriteVarint32(uint32(len(frame)))
		bb.WriteBytes(frame)
		_, err := r.w.Write(bb.Bytes())
		return err
	})
	if err != nil {
		r.err = err
		r.logger.Warn("capture stopped", "error", err, "records", r.count)
		return
	}
	r.count++
}

// Count returns the number of records written.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Err returns the first write error.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Reader iterates over the records of a capture.
type Reader struct {
	bb *protocol.ByteBuffer
	n  int
}

// NewReader reads records from data.
func NewReader(data []byte) *Reader {
	return &Reader{bb: protocol.WrapByteBuffer(data)}
}

// ReadFile reads a whole capture file.
func ReadFile(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewReader(data), nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	if r.bb.IsAtEnd() {
		return Record{}, io.EOF
	}
	r.n++

	b, err := r.bb.ReadByte()
	if err != nil {
		return Record{}, r.truncated(err)
	}
	dir := client.Direction(b)
	if dir != client.DirectionInbound && dir != client.DirectionOutbound {
		return Record{}, fmt.Errorf("%w %d in record %d", ErrBadDirection, b, r.n)
	}
	nanos, err := r.bb.ReadVarint64()
	if err != nil {
		return Record{}, r.truncated(err)
	}
	n, err := r.bb.ReadVarint32()
	if err != nil {
		return Record{}, r.truncated(err)
	}
	frame, err := r.bb.ReadBytes(int(n))
	if err != nil {
		return Record{}, r.truncated(err)
	}

	return Record{
		Dir:   dir,
		Time:  time.Unix(0, nanos.Int64()),
		Frame: append([]byte(nil), frame...),
	}, nil
}

func (r *Reader) truncated(err error) error {
	return fmt.Errorf("%w: record %d: %v", ErrTruncated, r.n, err)
}
