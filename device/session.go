package device

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/moffa90/go-spdrw/protocol"
	"github.com/moffa90/go-spdrw/transport"
)

// State is the connection state of a Session.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Session is one logical connection to one reader over one channel.
//
// All channel I/O happens while holding the session lock. The high level
// operations (Connect, Disconnect, Execute, Test, Scan, Probe and the
// read/write helpers) take the lock themselves. The exchange primitives
// (ExecuteCommand, GetResponse, GetResponseByte, ClearBuffer) require the
// caller to hold it:
//
//	s.Lock()
//	err := s.ExecuteCommand(cmd)
//	resp, err := s.GetResponse()
//	s.Unlock()
//
// The lock is not reentrant.
type Session struct {
	id      string
	channel transport.Channel
	config  Config
	lock    sync.Locker
	state   atomic.Int32

	// handshake is set while Connect runs the liveness test on an open
	// channel that is not yet published as connected. Guarded by lock.
	handshake bool
}

// New creates a disconnected Session on channel.
//
// Example:
//
//	ch := serialport.New(serialport.Config{Port: "/dev/ttyUSB0"})
//	s := device.New(ch,
//	    device.WithAddress(0x50),
//	    device.WithDataLength(512),
//	)
func New(channel transport.Channel, opts ...Option) *Session {
	if channel == nil {
		panic("channel cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	lock := cfg.Lock
	if lock == nil {
		lock = &sync.Mutex{}
	}

	return &Session{
		id:      uuid.NewString(),
		channel: channel,
		config:  cfg,
		lock:    lock,
	}
}

// ID returns the session's correlation id, included in every log line.
func (s *Session) ID() string {
	return s.id
}

// Name returns the channel identifier.
func (s *Session) Name() string {
	return s.channel.Name()
}

// Address returns the configured EEPROM address and whether one was set.
func (s *Session) Address() (protocol.Address, bool) {
	return s.config.Address, s.config.HasAddress
}

// DataLength returns the declared EEPROM size, 0 if unknown.
func (s *Session) DataLength() int {
	return s.config.DataLength
}

// State returns the current connection state. It does not take the lock.
func (s *Session) State() State {
	return State(s.state.Load())
}

// IsConnected reports whether the session is connected. It does not take the lock.
func (s *Session) IsConnected() bool {
	return s.State() == StateConnected
}

// Lock acquires the session lock.
func (s *Session) Lock() {
	s.lock.Lock()
}

// Unlock releases the session lock.
func (s *Session) Unlock() {
	s.lock.Unlock()
}

// Connect opens the channel and verifies that the peripheral answers the
// communication test. It returns true if the session is connected.
//
// Connection failures are expected (wrong port, wrong device, device still
// booting) and are reported as false, never as an error. When the channel
// opens but the test fails, the channel is closed again if this call opened
// it, and the session stays disconnected. The session reports connected only
// once the test has passed.
func (s *Session) Connect() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.IsConnected() {
		return true
	}

	opened := false
	if !s.channel.IsOpen() {
		if err := s.channel.Open(); err != nil {
			s.logError("open failed", "error", err)
			return false
		}
		opened = true
	}

	s.handshake = true
	defer func() { s.handshake = false }()

	if err := s.ClearBuffer(); err != nil {
		s.logError("initial buffer clear failed", "error", err)
		s.abort(opened)
		return false
	}

	if !s.test() {
		s.logError("communication test failed")
		s.abort(opened)
		return false
	}

	s.setState(StateConnected)
	s.logInfo("connected")
	return true
}

// Disconnect discards pending data and closes the channel. It is a no-op on
// a disconnected session. The session is disconnected on return even when
// an error is reported.
func (s *Session) Disconnect() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.IsConnected() {
		return nil
	}
	defer s.setState(StateDisconnected)

	var errs []error
	if err := s.channel.DiscardInBuffer(); err != nil {
		errs = append(errs, fmt.Errorf("discard input: %w", err))
	}
	if err := s.channel.DiscardOutBuffer(); err != nil {
		errs = append(errs, fmt.Errorf("discard output: %w", err))
	}
	if err := s.channel.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close: %w", err))
	}

	s.logInfo("disconnected")
	return errors.Join(errs...)
}

// Close disconnects the session. It implements io.Closer.
func (s *Session) Close() error {
	return s.Disconnect()
}

// ClearBuffer discards the channel's input and output buffers and waits
// until both are empty, polling once per PollInterval up to RetryLimit times.
// It is a no-op on a disconnected session.
//
// The caller must hold the session lock.
func (s *Session) ClearBuffer() error {
	if !s.usable() {
		return nil
	}

	for attempt := 0; attempt < s.config.RetryLimit; attempt++ {
		if err := s.channel.DiscardInBuffer(); err != nil {
			return fmt.Errorf("discard input: %w", err)
		}
		if err := s.channel.DiscardOutBuffer(); err != nil {
			return fmt.Errorf("discard output: %w", err)
		}

		in, err := s.channel.BytesToRead()
		if err != nil {
			return fmt.Errorf("query bytes to read: %w", err)
		}
		out, err := s.channel.BytesToWrite()
		if err != nil {
			return fmt.Errorf("query bytes to write: %w", err)
		}
		if in == 0 && out == 0 {
			return nil
		}

		time.Sleep(s.config.PollInterval)
	}

	return ErrBufferNotEmpty
}

// BytesToRead returns the number of bytes waiting to be read.
func (s *Session) BytesToRead() (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.IsConnected() {
		return 0, nil
	}
	return s.channel.BytesToRead()
}

// BytesToWrite returns the number of bytes waiting to be transmitted.
func (s *Session) BytesToWrite() (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.IsConnected() {
		return 0, nil
	}
	return s.channel.BytesToWrite()
}

// abort undoes a failed connect. The channel is closed only if this connect
// opened it, so a channel shared with another session stays open. The lock
// is held.
func (s *Session) abort(opened bool) {
	if opened {
		if err := s.channel.Close(); err != nil {
			s.logDebug("close after failed connect", "error", err)
		}
	}
	s.setState(StateDisconnected)
}

// usable reports whether the channel may carry exchanges: the session is
// connected or Connect is running its handshake. The lock is held.
func (s *Session) usable() bool {
	return s.handshake || s.IsConnected()
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
}

// logDebug logs a debug message if a logger is configured.
func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, s.fields(keysAndValues)...)
	}
}

// logInfo logs an info message if a logger is configured.
func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, s.fields(keysAndValues)...)
	}
}

// logError logs an error message if a logger is configured.
func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, s.fields(keysAndValues)...)
	}
}

func (s *Session) fields(keysAndValues []interface{}) []interface{} {
	kv := make([]interface{}, 0, len(keysAndValues)+4)
	kv = append(kv, "session", s.id, "port", s.channel.Name())
	return append(kv, keysAndValues...)
}
