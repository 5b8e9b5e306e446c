package shdlc

import (
	"sync/atomic"
)

// TransportMetrics contains atomic metrics for a Transport.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type TransportMetrics struct {
	// FrameSendCount indicates the number of frames written to the bus.
	FrameSendCount atomic.Uint64
	// FrameRecvCount indicates the number of verified frames received.
	FrameRecvCount atomic.Uint64
	// FrameMismatchCount indicates the number of received frames discarded
	// because address or opcode did not echo the outstanding request.
	FrameMismatchCount atomic.Uint64
	// FrameRejectCount indicates the number of delimited candidates that
	// failed framing or checksum validation.
	FrameRejectCount atomic.Uint64

	// NoiseByteCount indicates the number of bytes discarded outside any frame.
	NoiseByteCount atomic.Uint64

	// TxnCount indicates the number of transactions completed successfully.
	TxnCount atomic.Uint64
	// TxnErrCount indicates the number of transactions that failed.
	TxnErrCount atomic.Uint64
	// TxnRetryCount indicates the total number of transaction attempt retries.
	TxnRetryCount atomic.Uint64
}

func (m *TransportMetrics) incFrameSendCount() {
	m.FrameSendCount.Add(1)
}

func (m *TransportMetrics) incFrameRecvCount() {
	m.FrameRecvCount.Add(1)
}

func (m *TransportMetrics) incFrameMismatchCount() {
	m.FrameMismatchCount.Add(1)
}

func (m *TransportMetrics) incFrameRejectCount() {
	m.FrameRejectCount.Add(1)
}

func (m *TransportMetrics) addNoiseByteCount(n int) {
	m.NoiseByteCount.Add(uint64(n)) //nolint:gosec // n is a small positive byte count
}

func (m *TransportMetrics) incTxnCount() {
	m.TxnCount.Add(1)
}

func (m *TransportMetrics) incTxnErrCount() {
	m.TxnErrCount.Add(1)
}

func (m *TransportMetrics) incTxnRetryCount() {
	m.TxnRetryCount.Add(1)
}
