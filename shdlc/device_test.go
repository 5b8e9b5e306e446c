package shdlc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceExecute(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	scriptResponses(t, port, func(req *Frame) [][]byte {
		assert.Equal(t, byte(0x07), req.Address)
		return [][]byte{statusResponse(t, req, StatusOK, []byte{0x01})}
	})

	dev := NewDevice(tr, 0x07)
	assert.Equal(t, byte(0x07), dev.Address())
	assert.Same(t, tr, dev.Transport())

	data, err := dev.Execute(context.Background(), 0x08, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, data)
}

func TestDeviceRetryPolicyOption(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	var writes int
	port.onWrite = func([]byte) { writes++ } // never respond

	dev := NewDevice(tr, 0x00, WithRetryPolicy(RetryPolicy{RetryLimit: 1}))

	_, err := dev.Execute(context.Background(), 0x00, nil)
	require.ErrorIs(t, err, ErrTransactionFailed)
	assert.Equal(t, 2, writes)
}

func TestSendRoundTrip(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)

	scriptResponses(t, port, func(req *Frame) [][]byte {
		require.Equal(t, byte(0x91), req.Opcode)
		require.Empty(t, req.Payload)

		return [][]byte{statusResponse(t, req, StatusOK, []byte{0x00, 0x01, 0xC2, 0x00})}
	})

	dev := NewDevice(tr, 0x00)
	baud, err := dev.Baudrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(115200), baud)
}

func TestStandardCommands(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)
	dev := NewDevice(tr, 0x02)
	ctx := context.Background()

	scriptResponses(t, port, func(req *Frame) [][]byte {
		var data []byte

		switch req.Opcode {
		case 0x90:
			if len(req.Payload) == 0 {
				data = []byte{0x02}
			}
		case 0xD0:
			switch req.Payload[0] {
			case 0x00:
				data = []byte{'S', 'F', 'C', 0x00}
			case 0x01:
				data = []byte{'S', 'F', 'C', '6', '0', '0', '0', 0x00}
			case 0x02:
				data = []byte{'1', '-', 'A', 0x00}
			case 0x03:
				data = []byte{'C', 'A', 'F', 'E', 0x00}
			}
		case 0xD1:
			data = []byte{1, 48, 0, 2, 3, 1, 0}
		case 0xD2:
			data = []byte{0x00, 0x00, 0x00, 0x2A, byte(StatusSensorBusy)}
		}

		return [][]byte{statusResponse(t, req, StatusOK, data)}
	})

	addr, err := dev.SlaveAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), addr)

	require.NoError(t, dev.SetSlaveAddress(ctx, 0x05))
	require.NoError(t, dev.SetBaudrate(ctx, 115200))

	productType, err := dev.ProductType(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SFC", productType)

	name, err := dev.ProductName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SFC6000", name)

	article, err := dev.ArticleCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1-A", article)

	serial, err := dev.SerialNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CAFE", serial)

	version, err := dev.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, Version{
		FirmwareMajor: 1, FirmwareMinor: 48,
		HardwareMajor: 2, HardwareMinor: 3,
		ProtocolMajor: 1, ProtocolMinor: 0,
	}, version)
	assert.Equal(t, "firmware 1.48, hardware 2.3, protocol 1.0", version.String())

	state, err := dev.ErrorState(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x2A), state.Code)
	assert.Equal(t, StatusSensorBusy, state.LastStatus)

	require.NoError(t, dev.Reset(ctx))
}

func TestBusReusesHandles(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)
	bus := NewBus(tr)

	d1 := bus.Device(0x01)
	d2 := bus.Device(0x01)
	d3 := bus.Device(0x02)

	assert.Same(t, d1, d2)
	assert.NotSame(t, d1, d3)
	assert.Equal(t, byte(0x02), d3.Address())
	assert.Same(t, tr, bus.Transport())
}

func TestBusConcurrentAccess(t *testing.T) {
	port := &mockPort{}
	tr := newTestTransport(t, port)
	bus := NewBus(tr)

	var wg sync.WaitGroup
	handles := make([]*Device, 32)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = bus.Device(0x0A)
		}(i)
	}
	wg.Wait()

	for _, h := range handles[1:] {
		assert.Same(t, handles[0], h)
	}
}
