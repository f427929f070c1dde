// Package device drives an SPD EEPROM reader/writer over a byte channel.
//
// # Overview
//
// A Session owns one transport.Channel and serializes every exchange on it:
//   - Connecting, gated by a communication test
//   - Writing commands and collecting responses with bounded polling
//   - Keeping the channel buffers clean between exchanges
//   - Discovering devices on the reader's bus with Scan and Probe
//   - Reading and writing EEPROM bytes
//
// # Basic Usage
//
//	ch := serialport.New(serialport.Config{Port: "/dev/ttyACM0"})
//	s := device.New(ch, device.WithAddress(0x50), device.WithDataLength(512))
//
//	if !s.Connect() {
//	    log.Fatal("reader not found")
//	}
//	defer s.Close()
//
//	for _, addr := range s.Scan(protocol.FirstEEPROMAddress, protocol.LastEEPROMAddress) {
//	    fmt.Println("EEPROM at", addr)
//	}
//
//	spd, err := s.ReadAll()
//
// # Timing
//
// Every wait is a poll loop: PollInterval between polls, at most RetryLimit
// polls. RetryLimit x PollInterval is the effective response timeout:
//
//	s := device.New(ch,
//	    device.WithPollInterval(5*time.Millisecond),
//	    device.WithRetryLimit(400), // 2s
//	)
//
// # Error Handling
//
// Connect, Test, Scan and Probe never return errors; failures yield false or
// an empty result. The exchange primitives return hard errors:
//   - protocol.ResponseTimeoutError: nothing arrived within the retry limit
//   - protocol.OutOfRangeError: response shorter than the requested index
//   - ErrNotConnected: exchange on a disconnected session
//   - WriteError: the reader rejected a byte write
//
// # Finding Readers
//
// Find tries every channel an enumerator lists and keeps the ones that pass
// the communication test, with at most one session open at a time:
//
//	names, err := device.Find(ctx, serialport.Ports, serialport.Opener(serialport.Config{}))
package device
