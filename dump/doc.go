// Package dump reads and writes EEPROM images as text hex dumps.
//
// # Dump File Format
//
// A dump starts with a header line naming the EEPROM address (two hex
// digits) and the image length in bytes (decimal):
//
//	SPD 50 512
//
// Each following line holds up to RowSize bytes:
//
//	[Offset(4)]: [Data(hex bytes, space separated)] = [Checksum(2)]
//
// Example row:
//
//	0000: 92 10 0C 02 = 50
//	  0000 = Offset of the first byte (big-endian hex)
//	  92 10 0C 02 = Row data
//	  50 = Two's complement of the sum of the offset bytes and the data
//
// Rows must be contiguous and start at offset 0. Blank lines and lines
// starting with '#' are ignored.
//
// # Usage
//
//	img, err := dump.Parse("dimm0.spd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d bytes\n", img.Address, len(img.Data))
//
// Write an image read from a reader:
//
//	data, err := session.ReadAll()
//	...
//	err = dump.WriteFile("dimm0.spd", &dump.Image{Address: 0x50, Data: data})
package dump
