package sim

import (
	"strings"

	"github.com/moffa90/go-spdrw/protocol"
)

// writeNak is returned for writes to a missing EEPROM or past its end.
const writeNak = 0x01

// handle produces the firmware answer to one command line. d.mu is held.
func (d *Device) handle(line string) []byte {
	cmd, args, err := protocol.ParseCommandLine(line)
	if err != nil {
		return nil
	}

	if cmd == protocol.CmdTest {
		d.prompts++
		if d.prompts <= d.wakeAfter {
			return nil
		}
		return []byte{d.welcome}
	}

	if d.echo {
		return []byte(line)
	}

	switch cmd {
	case protocol.CmdScan:
		if len(args) != 2 || args[0] < 0 || args[0] > args[1] || args[1] > 0xFF {
			return nil
		}
		resp := make([]byte, 0, args[1]-args[0]+1)
		for a := args[0]; a <= args[1]; a++ {
			if _, ok := d.eeprom[protocol.Address(a)]; ok {
				resp = append(resp, byte(a))
			} else {
				resp = append(resp, protocol.Absent)
			}
		}
		return resp

	case protocol.CmdProbe:
		if len(args) != 1 {
			return nil
		}
		if _, ok := d.eeprom[protocol.Address(args[0])]; ok {
			return []byte{byte(args[0])}
		}
		return []byte{protocol.Absent}

	case protocol.CmdRead:
		if len(args) != 3 || args[1] < 0 || args[2] < 0 || args[2] > protocol.MaxReadLength {
			return nil
		}
		data, ok := d.eeprom[protocol.Address(args[0])]
		resp := make([]byte, args[2])
		for i := range resp {
			off := args[1] + i
			if ok && off < len(data) {
				resp[i] = data[off]
			} else {
				resp[i] = 0xFF
			}
		}
		return resp

	case protocol.CmdWrite:
		if len(args) != 3 {
			return nil
		}
		data, ok := d.eeprom[protocol.Address(args[0])]
		if !ok || args[1] < 0 || args[1] >= len(data) || args[2] < 0 || args[2] > 0xFF {
			return []byte{writeNak}
		}
		data[args[1]] = byte(args[2])
		return []byte{protocol.WriteAck}

	case protocol.CmdVersion:
		return []byte(d.version)
	}

	return nil
}

func isTest(line string) bool {
	return strings.TrimSpace(line) == string(rune(protocol.CmdTest))
}
