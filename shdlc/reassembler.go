package shdlc

import (
	"bytes"

	"github.com/arloliu/go-shdlc/logger"
)

// maxStuffedContent is the largest possible stuffed frame content between the
// two delimiters: every content byte stuffed to two bytes.
const maxStuffedContent = 2 * (minFrameSize + MaxPayloadSize)

// Reassembler turns an arbitrary byte stream into complete, checksum-verified
// frames.
//
// Bytes arrive in whatever chunks the physical link delivers them: a frame
// may be split across reads, and reads may contain line noise before a start
// delimiter or the remains of a corrupted frame. The Reassembler keeps a
// persistent buffer across calls, discards noise, and resynchronizes on the
// next delimiter after a decode failure, so corrupt input can delay frames
// but never wedge the stream.
//
// Reassembler is NOT goroutine-safe. The Transport owns it exclusively and
// serializes access, consistent with the half-duplex nature of the bus.
type Reassembler struct {
	buf    []byte
	logger logger.Logger

	// onNoise is called with the number of bytes discarded outside any frame
	// (before a start delimiter, or an oversized false start). Used for metrics.
	onNoise func(n int)

	// onReject is called for each complete delimited candidate that failed
	// to decode (framing or checksum error). Used for metrics.
	onReject func(err error)
}

// NewReassembler creates a Reassembler.
//
// onNoise and onReject are optional metric hooks; either may be nil.
func NewReassembler(l logger.Logger, onNoise func(n int), onReject func(err error)) *Reassembler {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Reassembler{
		logger:   l,
		onNoise:  onNoise,
		onReject: onReject,
	}
}

// Feed appends raw bytes read from the physical link to the internal buffer.
func (r *Reassembler) Feed(p []byte) {
	r.buf = append(r.buf, p...)
}

// Buffered returns the number of bytes currently held in the internal buffer.
func (r *Reassembler) Buffered() int {
	return len(r.buf)
}

// Reset discards all buffered bytes. Call it after reopening the physical
// link, when any partial frame in the buffer is known to be stale.
func (r *Reassembler) Reset() {
	r.buf = r.buf[:0]
}

// Next extracts the next verified frame from the buffer.
//
// It returns nil when no complete frame is available yet and the caller
// should feed more bytes. Corrupt candidates are discarded internally and
// scanning resumes at the following delimiter; they are reported through the
// onReject hook and debug logging, never as an error to the caller.
func (r *Reassembler) Next() *Frame {
	for {
		// Discard noise before the start delimiter.
		start := bytes.IndexByte(r.buf, Delimiter)
		if start < 0 {
			r.discardNoise(len(r.buf))
			r.buf = r.buf[:0]

			return nil
		}
		if start > 0 {
			r.discardNoise(start)
			r.buf = r.buf[start:]
		}

		// Find the closing delimiter, skipping escaped bytes.
		stop := r.findStop()
		if stop < 0 {
			// No stop yet. If the buffered content already exceeds the
			// largest possible stuffed frame, the leading delimiter was a
			// false start (e.g. the tail of a corrupted frame); drop it and
			// resynchronize so the buffer stays bounded.
			if len(r.buf)-1 > maxStuffedContent {
				r.discardNoise(1)
				r.buf = r.buf[1:]

				continue
			}

			return nil // need more bytes
		}

		content := r.buf[1:stop]

		if len(content) == 0 {
			// Two adjacent delimiters: the second may open the next frame.
			r.buf = r.buf[stop:]

			continue
		}

		frame, err := DecodeFrame(content)

		// Consume through the closing delimiter regardless of the outcome.
		r.buf = r.buf[stop+1:]

		if err != nil {
			r.logger.Debug("shdlc: discarding corrupt frame", "size", len(content), "error", err)
			if r.onReject != nil {
				r.onReject(err)
			}

			continue
		}

		return frame
	}
}

// findStop returns the index of the first unescaped delimiter after the
// opening one at index 0, or -1 if none is buffered yet.
func (r *Reassembler) findStop() int {
	escaped := false
	for i := 1; i < len(r.buf); i++ {
		if escaped {
			escaped = false

			continue
		}

		switch r.buf[i] {
		case Escape:
			escaped = true
		case Delimiter:
			return i
		}
	}

	return -1
}

func (r *Reassembler) discardNoise(n int) {
	if n == 0 {
		return
	}

	r.logger.Debug("shdlc: discarding noise bytes", "count", n)
	if r.onNoise != nil {
		r.onNoise(n)
	}
}
