package sfc5xxx

import (
	"fmt"

	"github.com/arloliu/go-shdlc/internal/wire"
)

// maxBufferedValues is the largest number of samples one buffered read
// response can carry.
const maxBufferedValues = 60

// BufferedRead is the result of reading the device's internal measurement
// buffer.
type BufferedRead struct {
	// Lost counts measurements that were dropped because the buffer
	// overflowed since the previous read.
	Lost uint32

	// Remaining counts measurements still buffered on the device after
	// this read.
	Remaining uint32

	// SamplingTime is the interval between buffered measurements in
	// seconds.
	SamplingTime float32

	// Values are the buffered flow measurements, oldest first.
	Values []float32
}

func decodeBufferedRead(data []byte) (BufferedRead, error) {
	var r BufferedRead

	if len(data) < 12 {
		return r, fmt.Errorf("sfc5xxx: buffered read needs 12 bytes, got %d", len(data))
	}

	r.Lost, _ = wire.Uint32(data)
	r.Remaining, _ = wire.Uint32(data[4:])
	r.SamplingTime, _ = wire.Float32(data[8:])

	for rest := data[12:]; len(rest) >= 4 && len(r.Values) < maxBufferedValues; rest = rest[4:] {
		v, _ := wire.Float32(rest)
		r.Values = append(r.Values, v)
	}

	return r, nil
}
