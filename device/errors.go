package device

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-spdrw/protocol"
)

var (
	// ErrNotConnected is returned by exchange primitives on a disconnected session.
	ErrNotConnected = errors.New("session is not connected")

	// ErrBufferNotEmpty is returned when the channel buffers could not be
	// emptied within the retry limit.
	ErrBufferNotEmpty = errors.New("channel buffer did not empty")

	// ErrNoAddress is returned by read/write helpers when no EEPROM address was configured.
	ErrNoAddress = errors.New("no EEPROM address configured")

	// ErrNoDataLength is returned by ReadAll when no data length was declared.
	ErrNoDataLength = errors.New("no EEPROM data length declared")
)

// WriteError indicates that the reader rejected a byte write.
type WriteError struct {
	Address protocol.Address
	Offset  uint16
	Status  byte
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to %s offset %d rejected: status 0x%02X",
		e.Address, e.Offset, e.Status)
}

// DataRangeError indicates an access outside the declared data length.
type DataRangeError struct {
	Offset int
	Count  int
	Length int
}

func (e *DataRangeError) Error() string {
	return fmt.Sprintf("access of %d bytes at offset %d exceeds data length %d",
		e.Count, e.Offset, e.Length)
}
