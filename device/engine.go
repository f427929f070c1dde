package device

import (
	"fmt"
	"time"

	"github.com/moffa90/go-spdrw/protocol"
)

// ExecuteCommand clears the channel buffers and writes every command token as
// its own line. It does not read a response. It is a no-op on a
// disconnected session.
//
// The caller must hold the session lock until the matching GetResponse returns.
func (s *Session) ExecuteCommand(cmd protocol.Command) error {
	if !s.usable() {
		return nil
	}

	if err := s.ClearBuffer(); err != nil {
		return err
	}

	for _, token := range cmd.Tokens() {
		if err := s.channel.WriteLine(token); err != nil {
			return fmt.Errorf("write %q: %w", token, err)
		}
	}

	s.logDebug("command sent", "command", cmd.String())
	return nil
}

// GetResponse waits for the peripheral to start answering, then reads every
// available byte until the channel goes idle and clears the buffers.
//
// It polls once per PollInterval and returns a *protocol.ResponseTimeoutError
// when nothing arrives within RetryLimit polls. On a disconnected session it
// returns ErrNotConnected without blocking.
//
// The caller must hold the session lock.
func (s *Session) GetResponse() (protocol.Response, error) {
	if !s.usable() {
		return nil, ErrNotConnected
	}

	if err := s.awaitData(); err != nil {
		return nil, err
	}

	resp := make(protocol.Response, 0, 16)
	for {
		n, err := s.channel.BytesToRead()
		if err != nil {
			return nil, fmt.Errorf("query bytes to read: %w", err)
		}
		if n == 0 {
			break
		}
		for ; n > 0; n-- {
			b, err := s.channel.ReadByte()
			if err != nil {
				if clearErr := s.ClearBuffer(); clearErr != nil {
					s.logDebug("clear after failed read", "error", clearErr)
				}
				return nil, fmt.Errorf("read response byte %d: %w", len(resp), err)
			}
			resp = append(resp, b)
		}
	}

	if err := s.ClearBuffer(); err != nil {
		return nil, err
	}

	s.logDebug("response received", "bytes", len(resp))
	return resp, nil
}

// GetResponseByte collects a response like GetResponse and returns the byte
// at offset, or a *protocol.OutOfRangeError if the response is too short.
//
// The caller must hold the session lock.
func (s *Session) GetResponseByte(offset int) (byte, error) {
	resp, err := s.GetResponse()
	if err != nil {
		return 0, err
	}
	return resp.At(offset)
}

// Execute runs one complete exchange under the session lock: ExecuteCommand
// followed by GetResponse.
//
// Example:
//
//	resp, err := s.Execute(protocol.BuildProbeCmd(0x50))
//	if errors.Is(err, protocol.ErrResponseTimeout) {
//	    // no answer
//	}
func (s *Session) Execute(cmd protocol.Command) (protocol.Response, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.execute(cmd)
}

func (s *Session) execute(cmd protocol.Command) (protocol.Response, error) {
	if !s.IsConnected() {
		return nil, ErrNotConnected
	}
	if err := s.ExecuteCommand(cmd); err != nil {
		return nil, err
	}
	return s.GetResponse()
}

// Test reports whether the connected peripheral answers the communication
// test with the Welcome sentinel. It returns false immediately when the
// session is disconnected and never returns an error.
//
// Until the first byte arrives the test command is re-sent on every poll,
// since a freshly attached board may need several prompts before its
// firmware starts answering.
func (s *Session) Test() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.test()
}

func (s *Session) test() bool {
	if !s.usable() {
		return false
	}

	cmd := protocol.BuildTestCmd()
	ready := false
	for attempt := 0; attempt < s.config.RetryLimit && !ready; attempt++ {
		if err := s.ExecuteCommand(cmd); err != nil {
			s.logDebug("test command failed", "error", err)
			return false
		}

		time.Sleep(s.config.PollInterval)

		n, err := s.channel.BytesToRead()
		if err != nil {
			s.logDebug("test poll failed", "error", err)
			return false
		}
		ready = n > 0
	}
	if !ready {
		s.logDebug("no answer to test command", "attempts", s.config.RetryLimit)
		return false
	}

	resp, err := s.GetResponse()
	if err != nil {
		s.logDebug("test response failed", "error", err)
		return false
	}

	ok := protocol.ParseTestResponse(resp)
	if !ok {
		s.logDebug("unexpected test response", "response", fmt.Sprintf("% X", []byte(resp)))
	}
	return ok
}

// Scan asks the reader which addresses in the inclusive range [start, end]
// have a responding device. Addresses are returned in ascending order.
//
// Scan never returns an error: a disconnected session, an invalid range or a
// failed exchange all yield an empty result.
//
// Example:
//
//	for _, addr := range s.Scan(protocol.FirstEEPROMAddress, protocol.LastEEPROMAddress) {
//	    fmt.Println("EEPROM at", addr)
//	}
func (s *Session) Scan(start, end protocol.Address) []protocol.Address {
	if !s.IsConnected() {
		return nil
	}

	cmd, err := protocol.BuildScanCmd(start, end)
	if err != nil {
		s.logDebug("scan rejected", "error", err)
		return nil
	}

	resp, err := s.Execute(cmd)
	if err != nil {
		s.logError("scan failed", "start", start.String(), "end", end.String(), "error", err)
		return nil
	}

	found := protocol.ParseScanResponse(start, end, resp)
	s.logDebug("scan complete", "start", start.String(), "end", end.String(), "found", len(found))
	return found
}

// Probe reports whether a device answers at addr. It does not need a prior
// Scan and never returns an error.
func (s *Session) Probe(addr protocol.Address) bool {
	if !s.IsConnected() {
		return false
	}

	resp, err := s.Execute(protocol.BuildProbeCmd(addr))
	if err != nil {
		s.logError("probe failed", "address", addr.String(), "error", err)
		return false
	}

	return protocol.ParseProbeResponse(addr, resp)
}

// awaitData polls until at least one byte is available. The lock is held.
func (s *Session) awaitData() error {
	start := time.Now()
	for attempt := 0; attempt < s.config.RetryLimit; attempt++ {
		n, err := s.channel.BytesToRead()
		if err != nil {
			return fmt.Errorf("query bytes to read: %w", err)
		}
		if n > 0 {
			return nil
		}
		time.Sleep(s.config.PollInterval)
	}

	return &protocol.ResponseTimeoutError{
		Attempts: s.config.RetryLimit,
		Elapsed:  time.Since(start),
	}
}
