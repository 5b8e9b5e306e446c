package shdlc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Port is the physical byte stream the transport drives: typically an open
// serial port, but anything byte-oriented with per-read timeouts works (the
// tests use in-memory mocks).
//
// Opening and configuring the port (device path, baud rate, parity) is the
// caller's job; see the serial package for a go.bug.st/serial based opener.
//
// Read must honor the timeout set by SetReadTimeout: when it expires with no
// data, Read returns either (0, nil) or an error whose Timeout() method
// reports true. Both conventions are handled.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout sets the timeout applied to subsequent Read calls.
	SetReadTimeout(t time.Duration) error
}

// readBufSize is the per-read scratch buffer size. Frames are at most 520
// bytes stuffed, so one slice usually captures a whole response.
const readBufSize = 600

// Transport owns a Port and turns it into a frame-oriented, mutually
// excluded channel: WriteFrame and ReadFrame move whole verified frames, and
// an internal lock guarantees at most one transaction is on the wire at a
// time (the bus is half-duplex and multi-drop; interleaved exchanges would
// corrupt each other).
//
// The Transport exclusively owns the Port and the receive buffer; no other
// component touches them.
type Transport struct {
	mu   sync.Mutex
	port Port
	rd   *Reassembler
	cfg  *TransportConfig

	readBuf []byte
	closed  atomic.Bool
	metrics TransportMetrics
}

// NewTransport creates a Transport over the given port.
//
// cfg may be nil, in which case defaults are used.
func NewTransport(port Port, cfg *TransportConfig) *Transport {
	if cfg == nil {
		cfg, _ = NewTransportConfig()
	}

	t := &Transport{
		port:    port,
		cfg:     cfg,
		readBuf: make([]byte, readBufSize),
	}
	t.rd = NewReassembler(cfg.logger, t.metrics.addNoiseByteCount, func(error) { t.metrics.incFrameRejectCount() })

	return t
}

// Close closes the underlying port. In-flight and subsequent operations fail
// with ErrTransportClosed or the port's own error.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	return t.port.Close()
}

// Metrics returns the transport metrics.
func (t *Transport) Metrics() *TransportMetrics {
	return &t.metrics
}

// Config returns the transport configuration.
func (t *Transport) Config() *TransportConfig {
	return t.cfg
}

// WriteFrame encodes and writes a single frame to the bus.
//
// It takes the transport lock for the duration of the write. Callers running
// full transactions should use Execute instead, which holds the lock across
// the whole request/response exchange.
func (t *Transport) WriteFrame(f *Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.writeFrame(f)
}

// ReadFrame reads the next verified frame from the bus, waiting until the
// deadline at the latest.
//
// It takes the transport lock for the duration of the read. Returns
// ErrReadTimeout if no frame arrives in time; ctx cancellation is honored
// between port reads.
func (t *Transport) ReadFrame(ctx context.Context, deadline time.Time) (*Frame, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.readFrame(ctx, deadline)
}

// writeFrame writes one encoded frame. Callers must hold t.mu.
func (t *Transport) writeFrame(f *Frame) error {
	if t.closed.Load() {
		return ErrTransportClosed
	}

	data, err := f.Encode()
	if err != nil {
		return err
	}

	if err := t.writeAll(data); err != nil {
		return fmt.Errorf("shdlc: port write: %w", err)
	}

	t.metrics.incFrameSendCount()

	return nil
}

// writeAll writes all bytes in data to the port.
func (t *Transport) writeAll(data []byte) error {
	for written := 0; written < len(data); {
		n, err := t.port.Write(data[written:])
		written += n

		if err != nil {
			return err
		}
	}

	return nil
}

// readFrame polls the port, feeding bytes into the reassembler, until a
// verified frame is available or the deadline elapses. Callers must hold t.mu.
//
// Port reads use short timeout slices (cfg.pollInterval, capped by the time
// remaining) so the deadline and ctx cancellation are observed promptly
// without busy-spinning.
func (t *Transport) readFrame(ctx context.Context, deadline time.Time) (*Frame, error) {
	for {
		if frame := t.rd.Next(); frame != nil {
			t.metrics.incFrameRecvCount()

			return frame, nil
		}

		if t.closed.Load() {
			return nil, ErrTransportClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrReadTimeout
		}

		slice := t.cfg.pollInterval
		if remaining < slice {
			slice = remaining
		}

		if err := t.port.SetReadTimeout(slice); err != nil {
			return nil, fmt.Errorf("shdlc: set port read timeout: %w", err)
		}

		n, err := t.port.Read(t.readBuf)
		if n > 0 {
			t.rd.Feed(t.readBuf[:n])
		}

		if err != nil && !isTimeoutError(err) {
			if t.closed.Load() || errors.Is(err, io.EOF) {
				return nil, ErrTransportClosed
			}

			return nil, fmt.Errorf("shdlc: port read: %w", err)
		}
	}
}

// isTimeoutError reports whether err describes an expired read timeout,
// which the poll loop absorbs (the overall deadline governs).
func isTimeoutError(err error) bool {
	var te interface{ Timeout() bool }

	return errors.As(err, &te) && te.Timeout()
}
