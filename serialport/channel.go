package serialport

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/moffa90/go-spdrw/transport"
)

// Defaults match the reader firmware's serial settings.
const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 1 * time.Millisecond
	DefaultLineEnding  = "\n"

	readChunkSize = 64
)

// ErrClosed is returned for I/O on a closed Channel.
var ErrClosed = errors.New("serial port is not open")

// Config holds serial port settings.
type Config struct {
	// Port is the port name, e.g. "/dev/ttyUSB0" or "COM3"
	Port string `yaml:"port"`

	// BaudRate defaults to DefaultBaudRate
	BaudRate int `yaml:"baud_rate"`

	// LineEnding terminates each written line, defaults to "\n"
	LineEnding string `yaml:"line_ending"`

	// ReadTimeout bounds each poll of the port for new bytes
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

func (c Config) withDefaults() Config {
	if c.BaudRate <= 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.LineEnding == "" {
		c.LineEnding = DefaultLineEnding
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	return c
}

// Mode returns the serial mode for the configuration: 8 data bits, no parity,
// one stop bit.
func (c Config) Mode() *serial.Mode {
	c = c.withDefaults()
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

type openFunc func(name string, mode *serial.Mode) (serial.Port, error)

// Channel is a transport.Channel backed by a host serial port.
type Channel struct {
	cfg     Config
	open    openFunc
	port    serial.Port
	pending []byte
	buf     []byte
}

// New creates an unopened Channel.
func New(cfg Config) *Channel {
	return &Channel{
		cfg:  cfg.withDefaults(),
		open: serial.Open,
		buf:  make([]byte, readChunkSize),
	}
}

// Opener returns a transport.Opener that builds Channels sharing cfg, with
// the port name replaced by the requested identifier.
func Opener(cfg Config) transport.Opener {
	return func(name string) transport.Channel {
		c := cfg
		c.Port = name
		return New(c)
	}
}

func (c *Channel) Name() string {
	return c.cfg.Port
}

func (c *Channel) Open() error {
	if c.port != nil {
		return fmt.Errorf("open %s: already open", c.cfg.Port)
	}

	port, err := c.open(c.cfg.Port, c.cfg.Mode())
	if err != nil {
		return fmt.Errorf("open %s: %w", c.cfg.Port, err)
	}
	if err := port.SetReadTimeout(c.cfg.ReadTimeout); err != nil {
		port.Close()
		return fmt.Errorf("set read timeout on %s: %w", c.cfg.Port, err)
	}

	c.port = port
	c.pending = c.pending[:0]
	return nil
}

func (c *Channel) Close() error {
	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	c.pending = c.pending[:0]
	if err != nil {
		return fmt.Errorf("close %s: %w", c.cfg.Port, err)
	}
	return nil
}

func (c *Channel) IsOpen() bool {
	return c.port != nil
}

func (c *Channel) WriteLine(s string) error {
	if c.port == nil {
		return ErrClosed
	}

	data := []byte(s + c.cfg.LineEnding)
	for len(data) > 0 {
		n, err := c.port.Write(data)
		if err != nil {
			return fmt.Errorf("write %s: %w", c.cfg.Port, err)
		}
		data = data[n:]
	}

	if err := c.port.Drain(); err != nil {
		return fmt.Errorf("drain %s: %w", c.cfg.Port, err)
	}
	return nil
}

func (c *Channel) ReadByte() (byte, error) {
	if c.port == nil {
		return 0, ErrClosed
	}
	if len(c.pending) == 0 {
		if err := c.fill(); err != nil {
			return 0, err
		}
		if len(c.pending) == 0 {
			return 0, fmt.Errorf("read %s: no data within %s", c.cfg.Port, c.cfg.ReadTimeout)
		}
	}

	b := c.pending[0]
	c.pending = c.pending[1:]
	return b, nil
}

func (c *Channel) BytesToRead() (int, error) {
	if c.port == nil {
		return 0, ErrClosed
	}
	if err := c.fill(); err != nil {
		return len(c.pending), err
	}
	return len(c.pending), nil
}

// BytesToWrite is always zero: WriteLine drains the output before returning.
func (c *Channel) BytesToWrite() (int, error) {
	if c.port == nil {
		return 0, ErrClosed
	}
	return 0, nil
}

func (c *Channel) DiscardInBuffer() error {
	if c.port == nil {
		return ErrClosed
	}
	c.pending = c.pending[:0]
	if err := c.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("reset input buffer on %s: %w", c.cfg.Port, err)
	}
	return nil
}

func (c *Channel) DiscardOutBuffer() error {
	if c.port == nil {
		return ErrClosed
	}
	if err := c.port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("reset output buffer on %s: %w", c.cfg.Port, err)
	}
	return nil
}

// fill performs one timed read and appends whatever arrived.
func (c *Channel) fill() error {
	n, err := c.port.Read(c.buf)
	if n > 0 {
		c.pending = append(c.pending, c.buf[:n]...)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", c.cfg.Port, err)
	}
	return nil
}
