package protocol

import (
	"fmt"
	"strings"
)

// ParseTestResponse reports whether a communication test response starts
// with the Welcome sentinel.
func ParseTestResponse(resp Response) bool {
	first, ok := resp.First()
	return ok && first == Welcome
}

// ParseScanResponse interprets a scan response for the range starting at start.
//
// Response format (one byte per candidate address, in range order):
//
//	[ADDR(start) or 0][ADDR(start+1) or 0]...
//
// A position is reported as present only when its byte is non-zero and equals
// the address it stands for. Bytes beyond end are ignored. Results are in
// ascending position order.
func ParseScanResponse(start, end Address, resp Response) []Address {
	if start > end {
		return nil
	}

	span := int(end) - int(start) + 1
	found := make([]Address, 0, span)
	for i, b := range resp {
		if i >= span {
			break
		}
		if b == Absent {
			continue
		}
		if addr := Address(int(start) + i); b == byte(addr) {
			found = append(found, addr)
		}
	}

	return found
}

// ParseProbeResponse reports whether the first response byte equals addr.
func ParseProbeResponse(addr Address, resp Response) bool {
	first, ok := resp.First()
	return ok && first == byte(addr)
}

// ParseReadResponse validates that a read response carries exactly count bytes.
func ParseReadResponse(resp Response, count int) ([]byte, error) {
	if len(resp) != count {
		return nil, fmt.Errorf("invalid data length for read response: got %d bytes, expected %d", len(resp), count)
	}
	data := make([]byte, count)
	copy(data, resp)
	return data, nil
}

// ParseWriteResponse returns the write status byte. WriteAck means success.
func ParseWriteResponse(resp Response) (byte, error) {
	if len(resp) == 0 {
		return 0, fmt.Errorf("empty write response")
	}
	return resp[0], nil
}

// ParseVersionResponse returns the firmware version string.
func ParseVersionResponse(resp Response) (string, error) {
	v := strings.TrimSpace(string(resp))
	if v == "" {
		return "", fmt.Errorf("empty version response")
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid version response %q", v)
		}
	}
	return v, nil
}
