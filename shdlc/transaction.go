package shdlc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-shdlc/internal/pool"
)

// RetryPolicy controls how a transaction is retried.
//
// A transaction makes 1 + RetryLimit attempts at most; each attempt re-sends
// the identical request frame and waits up to ReadTimeout for the matching
// response. Retrying is idempotent at the protocol level; callers are
// responsible for payload idempotence (e.g. not retrying a relative-move
// command on a device that already applied it).
type RetryPolicy struct {
	// RetryLimit is the number of additional attempts after the first one
	// fails with a retryable error. Zero disables retrying; a negative
	// value (UseTransportRetryLimit) selects the transport's configured
	// limit.
	RetryLimit int

	// ReadTimeout is the per-attempt deadline for the matching response.
	// Zero selects the transport's configured timeout.
	ReadTimeout time.Duration
}

// UseTransportRetryLimit, set as RetryPolicy.RetryLimit, selects the
// transport's configured retry limit.
const UseTransportRetryLimit = -1

// withDefaults fills unset fields from the transport configuration.
func (p RetryPolicy) withDefaults(cfg *TransportConfig) RetryPolicy {
	if p.RetryLimit < 0 {
		p.RetryLimit = cfg.retryLimit
	}
	if p.ReadTimeout == 0 {
		p.ReadTimeout = cfg.readTimeout
	}

	return p
}

// Execute runs one SHDLC transaction: it sends a request frame with the
// given address, opcode and payload, waits for the matching response, and
// returns the response payload with the leading status byte stripped.
//
// The transport lock is held for the entire exchange, including all retries,
// and released on every exit path. Within one attempt, received frames whose
// address or opcode do not echo the request are discarded (other bus traffic
// or stale retransmissions) and reading continues until the attempt deadline.
//
// Failure classification:
//   - non-zero device status → *DeviceError; permanent codes fail
//     immediately, transient codes (StatusSensorBusy) are retried
//   - ErrReadTimeout and malformed matching responses are retried
//   - port I/O failures and ctx cancellation fail immediately
//   - retries exhausted → ErrTransactionFailed wrapping the last error
func (t *Transport) Execute(ctx context.Context, address, opcode byte, payload []byte, policy RetryPolicy) ([]byte, error) {
	req, err := NewFrame(address, opcode, payload)
	if err != nil {
		return nil, err
	}

	policy = policy.withDefaults(t.cfg)

	t.mu.Lock()
	defer t.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt <= policy.RetryLimit; attempt++ {
		if err := ctx.Err(); err != nil {
			t.metrics.incTxnErrCount()

			return nil, err
		}

		if attempt > 0 {
			t.metrics.incTxnRetryCount()
			t.cfg.logger.Debug("shdlc: transaction retry",
				"address", address,
				"opcode", fmt.Sprintf("0x%02X", opcode),
				"attempt", attempt+1,
				"maxAttempts", policy.RetryLimit+1,
				"error", lastErr,
			)
		}

		data, err := t.attempt(ctx, req, policy.ReadTimeout)
		if err == nil {
			t.metrics.incTxnCount()

			return data, nil
		}

		if !retryable(err) {
			t.metrics.incTxnErrCount()

			return nil, err
		}

		lastErr = err

		// A busy device answered quickly, so the attempt consumed almost
		// none of its deadline. Give it time to finish before asking again.
		if devErr, ok := AsDeviceError(err); ok && devErr.Code.Transient() {
			if err := sleepCtx(ctx, t.cfg.busyRetryDelay); err != nil {
				t.metrics.incTxnErrCount()

				return nil, err
			}
		}
	}

	t.metrics.incTxnErrCount()

	return nil, fmt.Errorf("%w: %w", ErrTransactionFailed, lastErr)
}

// attempt performs a single request/response exchange. Callers must hold t.mu.
func (t *Transport) attempt(ctx context.Context, req *Frame, timeout time.Duration) ([]byte, error) {
	if err := t.writeFrame(req); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)

	for {
		rsp, err := t.readFrame(ctx, deadline)
		if err != nil {
			return nil, err
		}

		// The response must echo the request's address and opcode. Anything
		// else is traffic for another exchange on the shared bus; keep
		// listening until the deadline.
		if rsp.Address != req.Address || rsp.Opcode != req.Opcode {
			t.metrics.incFrameMismatchCount()
			t.cfg.logger.Debug("shdlc: ignoring mismatched frame",
				"wantAddress", req.Address,
				"gotAddress", rsp.Address,
				"wantOpcode", fmt.Sprintf("0x%02X", req.Opcode),
				"gotOpcode", fmt.Sprintf("0x%02X", rsp.Opcode),
			)

			continue
		}

		// By protocol convention the first payload byte of a response is the
		// device status.
		if len(rsp.Payload) == 0 {
			return nil, fmt.Errorf("%w: response payload missing status byte", ErrFraming)
		}

		if code := StatusCode(rsp.Payload[0]); code != StatusOK {
			return nil, &DeviceError{Code: code}
		}

		return rsp.Payload[1:], nil
	}
}

// sleepCtx blocks for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := pool.GetTimer(d)
	defer pool.PutTimer(timer)

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryable reports whether a failed attempt may be retried with the
// identical request.
func retryable(err error) bool {
	if errors.Is(err, ErrReadTimeout) || errors.Is(err, ErrFraming) || errors.Is(err, ErrChecksumMismatch) {
		return true
	}

	if devErr, ok := AsDeviceError(err); ok {
		return devErr.Code.Transient()
	}

	return false
}
