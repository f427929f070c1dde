package protocol

// Command letters understood by the reader firmware.
// Each command is sent as a single line: the letter followed by
// space-separated decimal arguments.
const (
	// CmdTest is the communication test command. The firmware answers with Welcome.
	CmdTest = 't'

	// CmdScan scans the bus for responding addresses: "s <start> <end>"
	CmdScan = 's'

	// CmdProbe probes a single address: "a <address>"
	CmdProbe = 'a'

	// CmdRead reads bytes from an EEPROM: "r <address> <offset> <count>"
	CmdRead = 'r'

	// CmdWrite writes a single byte to an EEPROM: "w <address> <offset> <value>"
	CmdWrite = 'w'

	// CmdVersion reports the firmware version as ASCII digits
	CmdVersion = 'v'
)

// Welcome is the sentinel byte a correctly functioning reader returns to CmdTest.
const Welcome = '!'

// WriteAck is the status byte returned by CmdWrite on success.
const WriteAck = 0x00

// Absent is the scan response value for an address with no responding device.
const Absent = 0x00

// Canonical SPD EEPROM bus address range (SA0-SA2 select 0x50-0x57).
const (
	FirstEEPROMAddress Address = 0x50
	LastEEPROMAddress  Address = 0x57
)

// OffsetSpace is the number of addressable offsets in one EEPROM; offsets
// are 16-bit on the wire.
const OffsetSpace = 1 << 16

// MaxReadLength is the largest number of bytes a single CmdRead may request.
const MaxReadLength = 64

// DefaultLineEnding terminates every command line written to the channel.
const DefaultLineEnding = "\n"
