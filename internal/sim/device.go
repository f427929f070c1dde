// Package sim provides a simulated SPD reader/writer peripheral that speaks
// the line protocol over an in-memory transport.Channel.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/moffa90/go-spdrw/protocol"
)

// ErrClosed is returned for I/O on a closed Device.
var ErrClosed = errors.New("sim: channel closed")

// Device simulates reader firmware. It is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	name    string
	open    bool
	openErr error

	welcome   byte
	wakeAfter int
	prompts   int
	mute      bool
	echo      bool
	version   string
	latency   int
	garbage   []byte

	eeprom map[protocol.Address][]byte

	// rx holds bytes visible to the host, inflight bytes not yet visible
	rx       []byte
	inflight []byte
	polls    int

	lines  []string
	opens  int
	closes int
}

// Option configures a Device.
type Option func(*Device)

// New creates a simulated peripheral named name.
func New(name string, opts ...Option) *Device {
	d := &Device{
		name:    name,
		welcome: protocol.Welcome,
		version: "20211025",
		eeprom:  make(map[protocol.Address][]byte),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithEEPROM attaches an EEPROM with the given contents at addr.
func WithEEPROM(addr protocol.Address, data []byte) Option {
	return func(d *Device) {
		d.eeprom[addr] = append([]byte(nil), data...)
	}
}

// WithPresent attaches blank 256-byte EEPROMs at every given address.
func WithPresent(addrs ...protocol.Address) Option {
	return func(d *Device) {
		for _, a := range addrs {
			d.eeprom[a] = make([]byte, 256)
		}
	}
}

// WithWelcome replaces the liveness sentinel, simulating the wrong peripheral.
func WithWelcome(b byte) Option {
	return func(d *Device) { d.welcome = b }
}

// WithWakeAfter ignores the first n test prompts, simulating a board that
// is still booting after the port was opened.
func WithWakeAfter(n int) Option {
	return func(d *Device) { d.wakeAfter = n }
}

// WithLatency delays every response except the communication test until
// BytesToRead has been polled n times.
func WithLatency(n int) Option {
	return func(d *Device) { d.latency = n }
}

// WithOpenError makes Open fail with err.
func WithOpenError(err error) Option {
	return func(d *Device) { d.openErr = err }
}

// WithGarbage leaves stale bytes in the receive buffer on open.
func WithGarbage(b []byte) Option {
	return func(d *Device) { d.garbage = append([]byte(nil), b...) }
}

// WithVersion sets the firmware version string.
func WithVersion(v string) Option {
	return func(d *Device) { d.version = v }
}

// Mute makes the device never answer anything.
func Mute() Option {
	return func(d *Device) { d.mute = true }
}

// Echo makes the device answer every non-test line with the line's own bytes.
func Echo() Option {
	return func(d *Device) { d.echo = true }
}

func (d *Device) Name() string {
	return d.name
}

func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.openErr != nil {
		return d.openErr
	}
	if d.open {
		return fmt.Errorf("sim: %s already open", d.name)
	}

	d.open = true
	d.opens++
	d.prompts = 0
	d.rx = append([]byte(nil), d.garbage...)
	d.inflight = nil
	d.polls = 0
	return nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.open {
		d.open = false
		d.closes++
	}
	d.rx = nil
	d.inflight = nil
	return nil
}

func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Device) WriteLine(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrClosed
	}

	d.lines = append(d.lines, s)
	if d.mute {
		return nil
	}

	resp := d.handle(s)
	if len(resp) == 0 {
		return nil
	}
	if d.latency == 0 || isTest(s) {
		d.rx = append(d.rx, resp...)
		return nil
	}
	if len(d.inflight) == 0 {
		d.polls = 0
	}
	d.inflight = append(d.inflight, resp...)
	return nil
}

func (d *Device) ReadByte() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return 0, ErrClosed
	}
	if len(d.rx) == 0 {
		return 0, fmt.Errorf("sim: no data")
	}

	b := d.rx[0]
	d.rx = d.rx[1:]
	return b, nil
}

func (d *Device) BytesToRead() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return 0, ErrClosed
	}

	if len(d.inflight) > 0 {
		d.polls++
		if d.polls >= d.latency {
			d.rx = append(d.rx, d.inflight...)
			d.inflight = nil
		}
	}
	return len(d.rx), nil
}

func (d *Device) BytesToWrite() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return 0, ErrClosed
	}
	return 0, nil
}

func (d *Device) DiscardInBuffer() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrClosed
	}
	d.rx = nil
	return nil
}

func (d *Device) DiscardOutBuffer() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrClosed
	}
	return nil
}

// Lines returns every line the host has written, in order.
func (d *Device) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

// Opens returns how many times the device was opened.
func (d *Device) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

// Closes returns how many times the device was closed after being open.
func (d *Device) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// EEPROM returns a copy of the EEPROM contents at addr.
func (d *Device) EEPROM(addr protocol.Address) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.eeprom[addr]...)
}
