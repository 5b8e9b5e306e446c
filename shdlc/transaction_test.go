package shdlc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-shdlc/logger"
)

// scriptResponses wires a responder into the port: after every request
// frame the transport writes, the responder's chunks are queued for reading.
func scriptResponses(t *testing.T, port *mockPort, respond func(req *Frame) [][]byte) {
	t.Helper()

	port.onWrite = func(data []byte) {
		req, err := DecodeFrame(data[1 : len(data)-1])
		require.NoError(t, err)

		for _, chunk := range respond(req) {
			port.rx = append(port.rx, chunk...)
		}
	}
}

// statusResponse encodes a response frame echoing the request's address and
// opcode, carrying the status byte followed by data.
func statusResponse(t *testing.T, req *Frame, status StatusCode, data []byte) []byte {
	t.Helper()

	return encodeTestFrame(t, req.Address, req.Opcode, append([]byte{byte(status)}, data...))
}

func TestExecuteSuccess(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	var writes int
	scriptResponses(t, port, func(req *Frame) [][]byte {
		writes++
		assert.Equal(t, byte(0x05), req.Address)
		assert.Equal(t, byte(0x08), req.Opcode)
		assert.Equal(t, []byte{0x01}, req.Payload)

		return [][]byte{statusResponse(t, req, StatusOK, []byte{0xAB, 0xCD})}
	})

	data, err := tr.Execute(context.Background(), 0x05, 0x08, []byte{0x01}, RetryPolicy{})
	require.NoError(t, err)

	// The leading status byte is stripped.
	assert.Equal(t, []byte{0xAB, 0xCD}, data)
	assert.Equal(t, 1, writes)
	assert.Equal(t, uint64(1), tr.Metrics().TxnCount.Load())
	assert.Zero(t, tr.Metrics().TxnRetryCount.Load())
}

func TestExecutePermanentDeviceErrorFailsImmediately(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	var writes int
	scriptResponses(t, port, func(req *Frame) [][]byte {
		writes++
		return [][]byte{statusResponse(t, req, StatusParameterError, nil)}
	})

	_, err := tr.Execute(context.Background(), 0x00, 0x00, []byte{0x01}, RetryPolicy{RetryLimit: 3})
	require.Error(t, err)

	devErr, ok := AsDeviceError(err)
	require.True(t, ok)
	assert.Equal(t, StatusParameterError, devErr.Code)
	assert.False(t, devErr.Code.Transient())

	// A permanent status must not be retried.
	assert.Equal(t, 1, writes)
	assert.Equal(t, uint64(1), tr.Metrics().TxnErrCount.Load())
}

func TestExecuteTransientBusyRetries(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	var writes int
	scriptResponses(t, port, func(req *Frame) [][]byte {
		writes++
		if writes < 3 {
			return [][]byte{statusResponse(t, req, StatusSensorBusy, nil)}
		}

		return [][]byte{statusResponse(t, req, StatusOK, []byte{0x01})}
	})

	data, err := tr.Execute(context.Background(), 0x00, 0x30, []byte{0x02}, RetryPolicy{RetryLimit: 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, data)
	assert.Equal(t, 3, writes)
	assert.Equal(t, uint64(2), tr.Metrics().TxnRetryCount.Load())
}

func TestExecuteRetryLogsDebug(t *testing.T) {
	mockLog := logger.NewMockLogger()
	mockLog.On("Debug", mock.Anything, mock.Anything).Return()

	port := &mockPort{}
	cfg, err := NewTransportConfig(
		WithReadTimeout(50*time.Millisecond),
		WithPollInterval(time.Millisecond),
		WithBusyRetryDelay(time.Millisecond),
		WithLogger(mockLog),
	)
	require.NoError(t, err)
	tr := NewTransport(port, cfg)

	var writes int
	scriptResponses(t, port, func(req *Frame) [][]byte {
		writes++
		if writes == 1 {
			return [][]byte{statusResponse(t, req, StatusSensorBusy, nil)}
		}

		return [][]byte{statusResponse(t, req, StatusOK, nil)}
	})

	_, err = tr.Execute(context.Background(), 0x00, 0x00, nil, RetryPolicy{RetryLimit: 1})
	require.NoError(t, err)

	mockLog.AssertCalled(t, "Debug", "shdlc: transaction retry", mock.Anything)
}

func TestExecuteTimeoutRetryAccounting(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	var writes int
	port.onWrite = func([]byte) { writes++ } // never respond

	policy := RetryPolicy{RetryLimit: 2, ReadTimeout: 15 * time.Millisecond}
	_, err := tr.Execute(context.Background(), 0x00, 0x00, []byte{0x01}, policy)

	require.ErrorIs(t, err, ErrTransactionFailed)
	require.ErrorIs(t, err, ErrReadTimeout)

	// Exactly 1 + RetryLimit attempts, each re-sending the request.
	assert.Equal(t, 3, writes)
	assert.Equal(t, uint64(2), tr.Metrics().TxnRetryCount.Load())
	assert.Equal(t, uint64(1), tr.Metrics().TxnErrCount.Load())
}

func TestExecuteRetriesAfterCorruptResponse(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	var writes int
	scriptResponses(t, port, func(req *Frame) [][]byte {
		writes++
		good := statusResponse(t, req, StatusOK, []byte{0x77})
		if writes == 1 {
			corrupt := make([]byte, len(good))
			copy(corrupt, good)
			corrupt[len(corrupt)-2] ^= 0xFF

			return [][]byte{corrupt}
		}

		return [][]byte{good}
	})

	policy := RetryPolicy{RetryLimit: 2, ReadTimeout: 15 * time.Millisecond}
	data, err := tr.Execute(context.Background(), 0x00, 0x00, nil, policy)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x77}, data)
	assert.Equal(t, 2, writes)
	assert.Equal(t, uint64(1), tr.Metrics().FrameRejectCount.Load())
}

func TestExecuteSkipsMismatchedFrames(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	scriptResponses(t, port, func(req *Frame) [][]byte {
		// Stale traffic for another opcode arrives first.
		return [][]byte{
			encodeTestFrame(t, req.Address, req.Opcode+1, []byte{0x00}),
			encodeTestFrame(t, req.Address+1, req.Opcode, []byte{0x00}),
			statusResponse(t, req, StatusOK, []byte{0x55}),
		}
	})

	data, err := tr.Execute(context.Background(), 0x03, 0x08, []byte{0x01}, RetryPolicy{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x55}, data)
	assert.Equal(t, uint64(2), tr.Metrics().FrameMismatchCount.Load())
}

func TestExecuteEmptyResponsePayload(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	scriptResponses(t, port, func(req *Frame) [][]byte {
		// A response without even a status byte violates the protocol.
		return [][]byte{encodeTestFrame(t, req.Address, req.Opcode, nil)}
	})

	policy := RetryPolicy{RetryLimit: 1, ReadTimeout: 15 * time.Millisecond}
	_, err := tr.Execute(context.Background(), 0x00, 0x00, nil, policy)
	require.ErrorIs(t, err, ErrTransactionFailed)
	require.ErrorIs(t, err, ErrFraming)
}

func TestExecuteContextCancelReleasesTransport(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tr.Execute(ctx, 0x00, 0x00, nil, RetryPolicy{ReadTimeout: time.Minute})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The transport lock must have been released on the error path.
	scriptResponses(t, port, func(req *Frame) [][]byte {
		return [][]byte{statusResponse(t, req, StatusOK, nil)}
	})

	data, err := tr.Execute(context.Background(), 0x00, 0x00, nil, RetryPolicy{})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestExecutePayloadTooLarge(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	_, err := tr.Execute(context.Background(), 0x00, 0x00, make([]byte, MaxPayloadSize+1), RetryPolicy{})
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Empty(t, port.tx)
}

func TestRetryPolicyDefaults(t *testing.T) {
	cfg, err := NewTransportConfig(
		WithReadTimeout(123*time.Millisecond),
		WithRetryLimit(7),
	)
	require.NoError(t, err)

	p := RetryPolicy{RetryLimit: UseTransportRetryLimit}.withDefaults(cfg)
	assert.Equal(t, 7, p.RetryLimit)
	assert.Equal(t, 123*time.Millisecond, p.ReadTimeout)

	p = RetryPolicy{RetryLimit: 1, ReadTimeout: time.Second}.withDefaults(cfg)
	assert.Equal(t, 1, p.RetryLimit)
	assert.Equal(t, time.Second, p.ReadTimeout)

	// Zero means zero retries, not "use the transport default".
	p = RetryPolicy{}.withDefaults(cfg)
	assert.Zero(t, p.RetryLimit)
	assert.Equal(t, 123*time.Millisecond, p.ReadTimeout)
}

func TestExecuteZeroRetryLimitMakesOneAttempt(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	var writes int
	port.onWrite = func([]byte) { writes++ } // never respond

	policy := RetryPolicy{ReadTimeout: 15 * time.Millisecond}
	_, err := tr.Execute(context.Background(), 0x00, 0x00, nil, policy)

	require.ErrorIs(t, err, ErrTransactionFailed)
	require.ErrorIs(t, err, ErrReadTimeout)
	assert.Equal(t, 1, writes)
	assert.Zero(t, tr.Metrics().TxnRetryCount.Load())
}
