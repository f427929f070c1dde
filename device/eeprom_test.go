package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-spdrw/internal/sim"
	"github.com/moffa90/go-spdrw/protocol"
)

func testImage(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

func TestReadByteAt(t *testing.T) {
	image := testImage(256)
	s := connected(t, sim.New("sim0", sim.WithEEPROM(0x50, image)), WithAddress(0x50))

	for _, offset := range []uint16{0, 1, 127, 255} {
		b, err := s.ReadByteAt(offset)
		require.NoError(t, err)
		assert.Equal(t, image[offset], b, "offset %d", offset)
	}
}

func TestReadBytes(t *testing.T) {
	image := testImage(512)
	dev := sim.New("sim0", sim.WithEEPROM(0x51, image))
	s := connected(t, dev, WithAddress(0x51), WithDataLength(512))

	t.Run("spans several exchanges", func(t *testing.T) {
		before := len(dev.Lines())

		data, err := s.ReadBytes(100, 150)
		require.NoError(t, err)

		assert.Equal(t, image[100:250], data)
		assert.Equal(t, []string{"r 81 100 64", "r 81 164 64", "r 81 228 22"}, dev.Lines()[before:])
	})

	t.Run("past declared length", func(t *testing.T) {
		_, err := s.ReadBytes(500, 20)

		var rangeErr *DataRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, 512, rangeErr.Length)
	})

	t.Run("zero count", func(t *testing.T) {
		_, err := s.ReadBytes(0, 0)
		assert.Error(t, err)
	})
}

func TestReadBytesOffsetSpace(t *testing.T) {
	dev := sim.New("sim0", sim.WithPresent(0x50))
	s := connected(t, dev, WithAddress(0x50))
	before := len(dev.Lines())

	_, err := s.ReadBytes(65500, 100)

	var rangeErr *DataRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, protocol.OffsetSpace, rangeErr.Length)
	assert.Len(t, dev.Lines(), before, "no read is sent past the last offset")

	data, err := s.ReadBytes(65535, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, data)

	_, err = connected(t, sim.New("sim1"), WithAddress(0x50), WithDataLength(protocol.OffsetSpace+1)).ReadAll()
	assert.ErrorAs(t, err, &rangeErr)
}

func TestReadAll(t *testing.T) {
	image := testImage(512)
	var progress []Progress
	s := connected(t, sim.New("sim0", sim.WithEEPROM(0x50, image)),
		WithAddress(0x50),
		WithDataLength(512),
		WithProgressCallback(func(p Progress) { progress = append(progress, p) }),
	)

	data, err := s.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, image, data)

	require.Len(t, progress, 512/protocol.MaxReadLength+1)
	assert.Equal(t, PhaseReading, progress[0].Phase)
	assert.Equal(t, protocol.MaxReadLength, progress[0].BytesRead)
	assert.InDelta(t, 12.5, progress[0].Percentage, 0.001)

	last := progress[len(progress)-1]
	assert.Equal(t, PhaseComplete, last.Phase)
	assert.Equal(t, 512, last.BytesRead)
	assert.Equal(t, 512, last.TotalBytes)
	assert.Equal(t, 100.0, last.Percentage)
}

func TestReadAllRequiresConfiguration(t *testing.T) {
	dev := sim.New("sim0", sim.WithPresent(0x50))

	_, err := connected(t, dev, WithAddress(0x50)).ReadAll()
	assert.ErrorIs(t, err, ErrNoDataLength)

	_, err = connected(t, sim.New("sim1"), WithDataLength(256)).ReadAll()
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestWriteByteAt(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		dev := sim.New("sim0", sim.WithPresent(0x50))
		s := connected(t, dev, WithAddress(0x50), WithDataLength(256))

		require.NoError(t, s.WriteByteAt(0x7E, 0xA5))

		assert.Equal(t, byte(0xA5), dev.EEPROM(0x50)[0x7E])
		b, err := s.ReadByteAt(0x7E)
		require.NoError(t, err)
		assert.Equal(t, byte(0xA5), b)
	})

	t.Run("rejected", func(t *testing.T) {
		s := connected(t, sim.New("sim0"), WithAddress(0x52))

		err := s.WriteByteAt(0, 0xFF)

		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, protocol.Address(0x52), writeErr.Address)
		assert.NotEqual(t, byte(protocol.WriteAck), writeErr.Status)
	})

	t.Run("no address", func(t *testing.T) {
		s := connected(t, sim.New("sim0"))
		assert.ErrorIs(t, s.WriteByteAt(0, 0), ErrNoAddress)
	})

	t.Run("disconnected", func(t *testing.T) {
		s := New(sim.New("sim0"), WithAddress(0x50))
		assert.ErrorIs(t, s.WriteByteAt(0, 0), ErrNotConnected)
	})
}

func TestVersion(t *testing.T) {
	s := connected(t, sim.New("sim0", sim.WithVersion("20240101")))

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, "20240101", v)
}
