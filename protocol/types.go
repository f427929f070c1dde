package protocol

import "fmt"

// Address is a device sub-address on the reader's bus, such as an SPD EEPROM address.
type Address byte

func (a Address) String() string {
	return fmt.Sprintf("0x%02X", byte(a))
}

// Command is an immutable sequence of text tokens sent as one logical request.
// Every token is written to the channel as its own terminated line.
type Command struct {
	tokens []string
}

// NewCommand creates a Command from the given tokens. The slice is copied.
func NewCommand(tokens ...string) Command {
	return Command{tokens: append([]string(nil), tokens...)}
}

// Tokens returns a copy of the command tokens.
func (c Command) Tokens() []string {
	return append([]string(nil), c.tokens...)
}

// Len returns the number of tokens.
func (c Command) Len() int {
	return len(c.tokens)
}

func (c Command) String() string {
	return fmt.Sprintf("%q", c.tokens)
}

// Response is the ordered sequence of bytes collected after a Command.
// It may be empty.
type Response []byte

// At returns the byte at the given offset, or an *OutOfRangeError when
// the response is shorter than offset+1.
func (r Response) At(offset int) (byte, error) {
	if offset < 0 || offset >= len(r) {
		return 0, &OutOfRangeError{Offset: offset, Length: len(r)}
	}
	return r[offset], nil
}

// First returns the first byte of the response and whether it exists.
func (r Response) First() (byte, bool) {
	if len(r) == 0 {
		return 0, false
	}
	return r[0], true
}
