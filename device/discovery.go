package device

import (
	"context"
	"fmt"

	"github.com/moffa90/go-spdrw/transport"
)

// Find tries every channel listed by enumerate and returns the identifiers
// of those whose peripheral passes the communication test.
//
// Candidates are tried one at a time: each session is disconnected before the
// next one is opened. ctx is checked between candidates; on cancellation the
// identifiers found so far are returned with ctx's error.
//
// Example:
//
//	names, err := device.Find(ctx, serialport.Ports, serialport.Opener(serialport.Config{}))
func Find(ctx context.Context, enumerate transport.Enumerator, open transport.Opener, opts ...Option) ([]string, error) {
	names, err := enumerate()
	if err != nil {
		return nil, fmt.Errorf("enumerate channels: %w", err)
	}

	found := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		s := New(open(name), opts...)
		if s.Connect() {
			found = append(found, name)
			s.logInfo("reader found")
		}
		if err := s.Disconnect(); err != nil {
			s.logError("disconnect failed", "error", err)
		}
	}

	return found, nil
}
