// Package serialport connects the device engine to host serial ports using
// go.bug.st/serial.
//
// # Opening a Reader
//
//	ch := serialport.New(serialport.Config{Port: "/dev/ttyUSB0"})
//	s := device.New(ch, device.WithAddress(0x50))
//	if !s.Connect() {
//	    log.Fatal("no reader on /dev/ttyUSB0")
//	}
//	defer s.Close()
//
// # Finding Readers
//
// FindDevices tries every serial port on the host and returns the ones that
// answer the communication test:
//
//	ports, err := serialport.FindDevices(ctx, serialport.Config{})
//
// # Buffering
//
// go.bug.st/serial has no "bytes available" query. Channel keeps a small
// receive buffer and fills it with short timed reads whenever BytesToRead is
// called, so the reported count grows as bytes arrive on the wire.
package serialport
