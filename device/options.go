package device

import (
	"sync"
	"time"

	"github.com/moffa90/go-spdrw/protocol"
)

// Config holds the session configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// ProgressCallback is called while reading a whole EEPROM (optional)
	ProgressCallback ProgressCallback

	// PollInterval is the delay between polls of the channel
	PollInterval time.Duration

	// RetryLimit is the maximum number of polls before a response times out.
	// RetryLimit x PollInterval is the effective response timeout.
	RetryLimit int

	// Lock serializes channel access. Sessions sharing one physical channel
	// must share one Lock.
	Lock sync.Locker

	// Address is the EEPROM sub-address used by the read/write helpers
	Address protocol.Address

	// HasAddress reports whether Address was set
	HasAddress bool

	// DataLength is the declared EEPROM size in bytes, 0 if unknown
	DataLength int
}

// Default timing, matching the reader firmware's expectations.
const (
	DefaultPollInterval = 10 * time.Millisecond
	DefaultRetryLimit   = 1000
)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		PollInterval: DefaultPollInterval,
		RetryLimit:   DefaultRetryLimit,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithLogger sets a logger for session operations.
//
// Example:
//
//	s := device.New(ch, device.WithLogger(logging.NewSlog(slog.Default())))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithProgressCallback sets a callback to track ReadAll progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithPollInterval sets the delay between channel polls.
// Zero is allowed and makes polling spin, which is useful in tests.
//
// Example:
//
//	s := device.New(ch, device.WithPollInterval(time.Millisecond))
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval >= 0 {
			c.PollInterval = interval
		}
	}
}

// WithRetryLimit sets the maximum number of polls before a response times out.
//
// Example:
//
//	s := device.New(ch, device.WithRetryLimit(200))
func WithRetryLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.RetryLimit = limit
		}
	}
}

// WithTimeout derives the retry limit from a wall-clock timeout and the
// current poll interval. Apply it after WithPollInterval.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout <= 0 || c.PollInterval <= 0 {
			return
		}
		limit := int(timeout / c.PollInterval)
		if limit < 1 {
			limit = 1
		}
		c.RetryLimit = limit
	}
}

// WithLock makes the session serialize on lock instead of a private mutex.
//
// Example:
//
//	var mu sync.Mutex
//	a := device.New(ch, device.WithLock(&mu), device.WithAddress(0x50))
//	b := device.New(ch, device.WithLock(&mu), device.WithAddress(0x51))
func WithLock(lock sync.Locker) Option {
	return func(c *Config) {
		if lock != nil {
			c.Lock = lock
		}
	}
}

// WithAddress sets the EEPROM sub-address used by the read/write helpers.
func WithAddress(addr protocol.Address) Option {
	return func(c *Config) {
		c.Address = addr
		c.HasAddress = true
	}
}

// WithDataLength declares the EEPROM size in bytes (256 for DDR3, 512 for DDR4).
func WithDataLength(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.DataLength = n
		}
	}
}
