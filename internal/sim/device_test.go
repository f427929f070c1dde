package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-spdrw/protocol"
	"github.com/moffa90/go-spdrw/transport"
)

var _ transport.Channel = (*Device)(nil)

func open(t *testing.T, d *Device) *Device {
	t.Helper()
	require.NoError(t, d.Open())
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func drain(t *testing.T, d *Device) []byte {
	t.Helper()
	var out []byte
	for {
		n, err := d.BytesToRead()
		require.NoError(t, err)
		if n == 0 {
			return out
		}
		b, err := d.ReadByte()
		require.NoError(t, err)
		out = append(out, b)
	}
}

func TestClosedDevice(t *testing.T) {
	d := New("sim0")

	assert.ErrorIs(t, d.WriteLine("t"), ErrClosed)
	_, err := d.BytesToRead()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, d.DiscardInBuffer(), ErrClosed)
	assert.NoError(t, d.Close())
	assert.Equal(t, 0, d.Closes())
}

func TestOpen(t *testing.T) {
	d := New("sim0")
	require.NoError(t, d.Open())
	assert.Error(t, d.Open(), "second open")
	require.NoError(t, d.Close())
	assert.Equal(t, 1, d.Opens())
	assert.Equal(t, 1, d.Closes())

	boom := errors.New("boom")
	assert.ErrorIs(t, New("sim1", WithOpenError(boom)).Open(), boom)
}

func TestFirmware(t *testing.T) {
	d := open(t, New("sim0",
		WithEEPROM(0x50, []byte{0x92, 0x10, 0x0C}),
		WithPresent(0x53),
		WithVersion("7"),
	))

	tests := []struct {
		line string
		want []byte
	}{
		{"t", []byte{protocol.Welcome}},
		{"s 80 84", []byte{0x50, 0, 0, 0x53, 0}},
		{"a 80", []byte{0x50}},
		{"a 81", []byte{protocol.Absent}},
		{"r 80 1 4", []byte{0x10, 0x0C, 0xFF, 0xFF}},
		{"w 83 2 165", []byte{protocol.WriteAck}},
		{"w 82 0 1", []byte{writeNak}},
		{"v", []byte("7")},
		{"x", nil},
		{"s 84 80", nil},
		{"r 80 0 -1", nil},
		{"r 80 -5 1", nil},
		{"w 83 -1 1", []byte{writeNak}},
		{"w 83 0 300", []byte{writeNak}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			require.NoError(t, d.WriteLine(tt.line))
			assert.Equal(t, tt.want, drain(t, d))
		})
	}

	assert.Equal(t, byte(165), d.EEPROM(0x53)[2])
	assert.Len(t, d.Lines(), len(tests))
}

func TestWakeAfter(t *testing.T) {
	d := open(t, New("sim0", WithWakeAfter(2)))

	for i := 0; i < 2; i++ {
		require.NoError(t, d.WriteLine("t"))
		assert.Empty(t, drain(t, d))
	}
	require.NoError(t, d.WriteLine("t"))
	assert.Equal(t, []byte{protocol.Welcome}, drain(t, d))
}

func TestLatency(t *testing.T) {
	d := open(t, New("sim0", WithLatency(3), WithPresent(0x50)))

	require.NoError(t, d.WriteLine("a 80"))
	for i := 0; i < 2; i++ {
		n, err := d.BytesToRead()
		require.NoError(t, err)
		assert.Zero(t, n, "poll %d", i+1)
	}
	n, err := d.BytesToRead()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, d.WriteLine("t"))
	assert.Equal(t, []byte{0x50, protocol.Welcome}, drain(t, d))
}

func TestGarbageAndDiscard(t *testing.T) {
	d := open(t, New("sim0", WithGarbage([]byte{0xDE, 0xAD})))

	n, err := d.BytesToRead()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, d.DiscardInBuffer())
	assert.Empty(t, drain(t, d))
}

func TestMuteAndEcho(t *testing.T) {
	mute := open(t, New("sim0", Mute()))
	require.NoError(t, mute.WriteLine("t"))
	assert.Empty(t, drain(t, mute))

	echo := open(t, New("sim1", Echo()))
	require.NoError(t, echo.WriteLine("r 80 0 1"))
	assert.Equal(t, []byte("r 80 0 1"), drain(t, echo))
	require.NoError(t, echo.WriteLine("t"))
	assert.Equal(t, []byte{protocol.Welcome}, drain(t, echo))
}
