package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	buf := AppendUint16(nil, 0xBEEF)
	buf = AppendUint32(buf, 0x01020304)
	buf = AppendFloat32(buf, 1.5)

	v16, err := Uint16(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), v16)

	v32, err := Uint32(buf[2:])
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v32)

	f, err := Float32(buf[6:])
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)
}

func TestReadShortBuffer(t *testing.T) {
	_, err := Uint16([]byte{0x01})
	assert.Error(t, err)

	_, err = Uint32([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)

	_, err = Float32(nil)
	assert.Error(t, err)

	_, err = Byte(nil)
	assert.Error(t, err)
}

func TestBool(t *testing.T) {
	v, err := Bool([]byte{0x00})
	require.NoError(t, err)
	assert.False(t, v)

	v, err = Bool([]byte{0x02})
	require.NoError(t, err)
	assert.True(t, v)
}

func TestString(t *testing.T) {
	s, err := String([]byte{'S', 'F', 'C', '6', '0', '0', '0', 0x00})
	require.NoError(t, err)
	assert.Equal(t, "SFC6000", s)

	// Trailing bytes after the terminator are ignored.
	s, err = String([]byte{'A', 0x00, 'B'})
	require.NoError(t, err)
	assert.Equal(t, "A", s)

	_, err = String([]byte{'A', 'B'})
	require.ErrorIs(t, err, ErrInvalidString)

	_, err = String([]byte{0xC3, 0x00})
	require.ErrorIs(t, err, ErrInvalidString)
}
