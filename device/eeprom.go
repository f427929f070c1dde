package device

import (
	"fmt"
	"time"

	"github.com/moffa90/go-spdrw/protocol"
)

// ReadByteAt reads one byte at offset from the configured EEPROM.
func (s *Session) ReadByteAt(offset uint16) (byte, error) {
	data, err := s.ReadBytes(offset, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// ReadBytes reads count bytes starting at offset from the configured EEPROM.
// Reads longer than protocol.MaxReadLength are split into several exchanges;
// the lock is released between them.
func (s *Session) ReadBytes(offset uint16, count int) ([]byte, error) {
	addr, err := s.target()
	if err != nil {
		return nil, err
	}
	if err := s.checkRange(int(offset), count); err != nil {
		return nil, err
	}

	data := make([]byte, 0, count)
	for count > 0 {
		n := count
		if n > protocol.MaxReadLength {
			n = protocol.MaxReadLength
		}

		chunk, err := s.readChunk(addr, offset, n)
		if err != nil {
			return nil, err
		}

		data = append(data, chunk...)
		offset += uint16(n)
		count -= n
	}

	return data, nil
}

// ReadAll reads the whole declared data length of the configured EEPROM,
// reporting progress after every chunk.
func (s *Session) ReadAll() ([]byte, error) {
	total := s.config.DataLength
	if total <= 0 {
		return nil, ErrNoDataLength
	}
	if total > protocol.OffsetSpace {
		return nil, &DataRangeError{Offset: 0, Count: total, Length: protocol.OffsetSpace}
	}
	addr, err := s.target()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	data := make([]byte, 0, total)
	for len(data) < total {
		n := total - len(data)
		if n > protocol.MaxReadLength {
			n = protocol.MaxReadLength
		}

		chunk, err := s.readChunk(addr, uint16(len(data)), n)
		if err != nil {
			return nil, fmt.Errorf("read offset %d: %w", len(data), err)
		}
		data = append(data, chunk...)

		s.reportProgress(Progress{
			Phase:       PhaseReading,
			BytesRead:   len(data),
			TotalBytes:  total,
			Percentage:  float64(len(data)) / float64(total) * 100,
			ElapsedTime: time.Since(startTime),
		})
	}

	s.reportProgress(Progress{
		Phase:       PhaseComplete,
		BytesRead:   total,
		TotalBytes:  total,
		Percentage:  100,
		ElapsedTime: time.Since(startTime),
	})

	s.logInfo("read complete",
		"address", addr.String(),
		"bytes", total,
		"elapsed", time.Since(startTime).String(),
	)
	return data, nil
}

// WriteByteAt writes value at offset of the configured EEPROM. A rejected
// write is reported as a *WriteError.
func (s *Session) WriteByteAt(offset uint16, value byte) error {
	addr, err := s.target()
	if err != nil {
		return err
	}
	if err := s.checkRange(int(offset), 1); err != nil {
		return err
	}

	resp, err := s.Execute(protocol.BuildWriteCmd(addr, offset, value))
	if err != nil {
		return err
	}

	status, err := protocol.ParseWriteResponse(resp)
	if err != nil {
		return err
	}
	if status != protocol.WriteAck {
		return &WriteError{Address: addr, Offset: offset, Status: status}
	}

	return nil
}

// Version returns the reader firmware version.
func (s *Session) Version() (string, error) {
	resp, err := s.Execute(protocol.BuildVersionCmd())
	if err != nil {
		return "", err
	}
	return protocol.ParseVersionResponse(resp)
}

func (s *Session) readChunk(addr protocol.Address, offset uint16, n int) ([]byte, error) {
	cmd, err := protocol.BuildReadCmd(addr, offset, n)
	if err != nil {
		return nil, err
	}

	resp, err := s.Execute(cmd)
	if err != nil {
		return nil, err
	}
	return protocol.ParseReadResponse(resp, n)
}

func (s *Session) target() (protocol.Address, error) {
	if !s.config.HasAddress {
		return 0, ErrNoAddress
	}
	return s.config.Address, nil
}

func (s *Session) checkRange(offset, count int) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	if offset+count > protocol.OffsetSpace {
		return &DataRangeError{Offset: offset, Count: count, Length: protocol.OffsetSpace}
	}
	if s.config.DataLength > 0 && offset+count > s.config.DataLength {
		return &DataRangeError{Offset: offset, Count: count, Length: s.config.DataLength}
	}
	return nil
}

// reportProgress calls the progress callback if configured.
func (s *Session) reportProgress(progress Progress) {
	if s.config.ProgressCallback != nil {
		s.config.ProgressCallback(progress)
	}
}
