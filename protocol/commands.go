package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildTestCmd constructs the communication test command.
//
// Line format:
//
//	t
func BuildTestCmd() Command {
	return NewCommand(line(CmdTest))
}

// BuildScanCmd constructs a bus scan command for the inclusive range [start, end].
//
// Line format:
//
//	s <start> <end>
//
// Returns an error if start is greater than end.
func BuildScanCmd(start, end Address) (Command, error) {
	if start > end {
		return Command{}, fmt.Errorf("invalid scan range: start %s is greater than end %s", start, end)
	}
	return NewCommand(line(CmdScan, int(start), int(end))), nil
}

// BuildProbeCmd constructs a probe command for a single address.
//
// Line format:
//
//	a <address>
func BuildProbeCmd(addr Address) Command {
	return NewCommand(line(CmdProbe, int(addr)))
}

// BuildReadCmd constructs a read command for count bytes starting at offset.
//
// Line format:
//
//	r <address> <offset> <count>
//
// count must be between 1 and MaxReadLength.
func BuildReadCmd(addr Address, offset uint16, count int) (Command, error) {
	if count <= 0 {
		return Command{}, fmt.Errorf("read count must be positive, got %d", count)
	}
	if count > MaxReadLength {
		return Command{}, fmt.Errorf("read count %d exceeds maximum %d bytes", count, MaxReadLength)
	}
	return NewCommand(line(CmdRead, int(addr), int(offset), count)), nil
}

// BuildWriteCmd constructs a single byte write command.
//
// Line format:
//
//	w <address> <offset> <value>
func BuildWriteCmd(addr Address, offset uint16, value byte) Command {
	return NewCommand(line(CmdWrite, int(addr), int(offset), int(value)))
}

// BuildVersionCmd constructs the firmware version query.
func BuildVersionCmd() Command {
	return NewCommand(line(CmdVersion))
}

// line joins a command letter and its decimal arguments with single spaces.
func line(cmd byte, args ...int) string {
	var b strings.Builder
	b.WriteByte(cmd)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(arg))
	}
	return b.String()
}

// ParseCommandLine splits a received command line into its letter and numeric
// arguments. It is the inverse of the Build* functions and is used by
// simulated peripherals.
func ParseCommandLine(s string) (cmd byte, args []int, err error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, nil, fmt.Errorf("empty command line")
	}
	if len(fields[0]) != 1 {
		return 0, nil, fmt.Errorf("invalid command %q: expected a single character", fields[0])
	}

	args = make([]int, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid argument %q for command %q: %w", f, fields[0], err)
		}
		args = append(args, v)
	}

	return fields[0][0], args, nil
}
