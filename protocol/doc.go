// Package protocol implements the line-oriented command protocol spoken by
// Arduino-based SPD EEPROM reader/writer firmware.
//
// # Protocol Overview
//
// Commands are ASCII lines: a single command letter followed by
// space-separated decimal arguments. Responses are raw bytes with no framing;
// a response ends when the channel goes idle.
//
//	Command:  t                      -> '!'
//	Command:  s 80 87                -> [0x50][0x00][0x00][0x53]...
//	Command:  a 80                   -> [0x50]
//	Command:  r 80 0 16              -> 16 data bytes
//	Command:  w 80 0 146             -> [0x00]
//
// # Command Builders
//
// Use the Build* functions to create commands:
//
//	cmd := protocol.BuildTestCmd()
//	cmd, err := protocol.BuildScanCmd(protocol.FirstEEPROMAddress, protocol.LastEEPROMAddress)
//	cmd := protocol.BuildProbeCmd(0x50)
//
// # Response Parsers
//
// Use the Parse* functions to interpret collected responses:
//
//	ok := protocol.ParseTestResponse(resp)
//	found := protocol.ParseScanResponse(start, end, resp)
//	present := protocol.ParseProbeResponse(0x50, resp)
//
// # Error Handling
//
// Two conditions are hard errors: a response that never arrives
// (ResponseTimeoutError) and an access beyond the end of a response
// (OutOfRangeError). Both can be matched with errors.Is:
//
//	if errors.Is(err, protocol.ErrResponseTimeout) {
//	    // wire state is unknown, reconnect
//	}
package protocol
