package device

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-spdrw/internal/sim"
)

// fastOptions keep poll loops short so tests do not sleep for seconds.
func fastOptions(extra ...Option) []Option {
	return append([]Option{
		WithPollInterval(100 * time.Microsecond),
		WithRetryLimit(200),
	}, extra...)
}

// connected returns a connected session on a simulated reader.
func connected(t *testing.T, dev *sim.Device, opts ...Option) *Session {
	t.Helper()
	s := New(dev, fastOptions(opts...)...)
	require.True(t, s.Connect(), "Connect() to simulated reader")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// MockLogger records messages for assertions.
type MockLogger struct {
	mu        sync.Mutex
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
	lastKV    []interface{}
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugMsgs = append(l.debugMsgs, msg)
	l.lastKV = kv
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoMsgs = append(l.infoMsgs, msg)
	l.lastKV = kv
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorMsgs = append(l.errorMsgs, msg)
	l.lastKV = kv
}

// MockChannel is a transport.Channel driven by testify expectations.
type MockChannel struct{ mock.Mock }

func (m *MockChannel) Name() string {
	return m.Called().String(0)
}

func (m *MockChannel) Open() error {
	return m.Called().Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func (m *MockChannel) IsOpen() bool {
	return m.Called().Bool(0)
}

func (m *MockChannel) WriteLine(s string) error {
	return m.Called(s).Error(0)
}

func (m *MockChannel) ReadByte() (byte, error) {
	args := m.Called()
	return args.Get(0).(byte), args.Error(1)
}

func (m *MockChannel) BytesToRead() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockChannel) BytesToWrite() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockChannel) DiscardInBuffer() error {
	return m.Called().Error(0)
}

func (m *MockChannel) DiscardOutBuffer() error {
	return m.Called().Error(0)
}
