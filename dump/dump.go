package dump

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/moffa90/go-spdrw/protocol"
)

const (
	// Magic starts the header line
	Magic = "SPD"

	// RowSize is the number of data bytes written per row
	RowSize = 16

	// MaxLength is the largest image a dump may describe
	MaxLength = 1 << 16
)

// Image is the content of one EEPROM.
type Image struct {
	// Address is the EEPROM address the image was read from
	Address protocol.Address

	// Data holds the EEPROM bytes starting at offset 0
	Data []byte
}

// Parse parses a dump file from the given path.
func Parse(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses a dump from any io.Reader.
func ParseReader(r io.Reader) (*Image, error) {
	scanner := bufio.NewScanner(r)

	var img *Image
	var length int
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		if img == nil {
			var err error
			img, length, err = parseHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: failed to parse header: %w", lineNum, err)
			}
			continue
		}

		offset, data, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if offset != len(img.Data) {
			return nil, fmt.Errorf("line %d: row offset 0x%04X, expected 0x%04X", lineNum, offset, len(img.Data))
		}
		if len(img.Data)+len(data) > length {
			return nil, fmt.Errorf("line %d: data exceeds declared length %d", lineNum, length)
		}
		img.Data = append(img.Data, data...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	if img == nil {
		return nil, fmt.Errorf("empty file")
	}
	if len(img.Data) != length {
		return nil, fmt.Errorf("truncated dump: got %d bytes, header declares %d", len(img.Data), length)
	}

	return img, nil
}

// parseHeader parses "SPD <address hex> <length>".
func parseHeader(line string) (*Image, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != Magic {
		return nil, 0, fmt.Errorf("expected %q header, got %q", Magic+" <address> <length>", line)
	}

	addr, err := strconv.ParseUint(fields[1], 16, 8)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid address %q: %w", fields[1], err)
	}

	length, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, 0, fmt.Errorf("invalid length %q: %w", fields[2], err)
	}
	if length <= 0 || length > MaxLength {
		return nil, 0, fmt.Errorf("invalid length %d: must be 1..%d", length, MaxLength)
	}

	return &Image{
		Address: protocol.Address(addr),
		Data:    make([]byte, 0, length),
	}, length, nil
}

// parseRow parses "OOOO: DD DD ... = CC".
func parseRow(line string) (int, []byte, error) {
	head, rest, ok := strings.Cut(line, ":")
	if !ok || len(head) != 4 {
		return 0, nil, fmt.Errorf("row must start with a 4-digit offset and ':'")
	}
	body, sum, ok := strings.Cut(rest, "=")
	if !ok {
		return 0, nil, fmt.Errorf("row has no checksum")
	}

	offset, err := strconv.ParseUint(head, 16, 16)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid offset %q: %w", head, err)
	}

	data, err := hex.DecodeString(strings.Join(strings.Fields(body), ""))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid hex data: %w", err)
	}
	if len(data) == 0 {
		return 0, nil, fmt.Errorf("row has no data")
	}

	want, err := hex.DecodeString(strings.TrimSpace(sum))
	if err != nil || len(want) != 1 {
		return 0, nil, fmt.Errorf("invalid checksum %q", strings.TrimSpace(sum))
	}

	got := rowChecksum(int(offset), data)
	if got != want[0] {
		return 0, nil, fmt.Errorf("checksum mismatch: got 0x%02X, expected 0x%02X", want[0], got)
	}

	return int(offset), data, nil
}

// Write writes img to w in dump format.
func Write(w io.Writer, img *Image) error {
	if len(img.Data) == 0 || len(img.Data) > MaxLength {
		return fmt.Errorf("invalid image length %d: must be 1..%d", len(img.Data), MaxLength)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %02X %d\n", Magic, byte(img.Address), len(img.Data))

	for offset := 0; offset < len(img.Data); offset += RowSize {
		end := offset + RowSize
		if end > len(img.Data) {
			end = len(img.Data)
		}
		row := img.Data[offset:end]

		fmt.Fprintf(bw, "%04X:", offset)
		for _, b := range row {
			fmt.Fprintf(bw, " %02X", b)
		}
		fmt.Fprintf(bw, " = %02X\n", rowChecksum(offset, row))
	}

	return bw.Flush()
}

// WriteFile writes img to the file at path, replacing it.
func WriteFile(path string, img *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// rowChecksum is the two's complement of the sum of the offset bytes and data.
func rowChecksum(offset int, data []byte) byte {
	sum := byte(offset>>8) + byte(offset)
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}
