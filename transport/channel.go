// Package transport defines the byte channel contract the device engine runs on.
//
// A Channel is a line-buffered, latency-bearing byte pipe to a peripheral:
// commands are written as terminated lines and responses are read back one
// byte at a time while the channel reports bytes available.
//
// Implementations:
//   - serialport.Channel: host serial ports (go.bug.st/serial)
//   - sim.Device: simulated reader firmware for tests and examples
package transport

// Channel is an addressable byte channel to a single peripheral.
//
// A Channel is not required to be safe for concurrent use; the owning
// session serializes all access.
type Channel interface {
	// Name returns the channel identifier (for example "/dev/ttyUSB0" or "COM3").
	Name() string

	// Open opens the channel. Opening an open channel is an error.
	Open() error

	// Close closes the channel. Closing a closed channel is a no-op.
	Close() error

	// IsOpen reports whether the channel is open.
	IsOpen() bool

	// WriteLine writes s followed by the channel's line terminator.
	WriteLine(s string) error

	// ReadByte reads one byte. It may block until a byte arrives or the
	// channel's own read timeout expires.
	ReadByte() (byte, error)

	// BytesToRead returns the number of received bytes waiting to be read.
	BytesToRead() (int, error)

	// BytesToWrite returns the number of bytes queued for transmission.
	BytesToWrite() (int, error)

	// DiscardInBuffer drops all received bytes not yet read.
	DiscardInBuffer() error

	// DiscardOutBuffer drops all bytes not yet transmitted.
	DiscardOutBuffer() error
}

// Enumerator lists the channel identifiers currently available on the host.
type Enumerator func() ([]string, error)

// Opener creates an unopened Channel for the given identifier.
type Opener func(name string) Channel
