package dump

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moffa90/go-spdrw/device"
	"github.com/moffa90/go-spdrw/internal/sim"
	"github.com/moffa90/go-spdrw/protocol"
)

func TestParseReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Image
		wantErr bool
		errMsg  string
	}{
		{
			name: "single row",
			input: "SPD 50 4\n" +
				"0000: 01 02 03 04 = F6\n",
			want: &Image{Address: 0x50, Data: []byte{0x01, 0x02, 0x03, 0x04}},
		},
		{
			name: "multiple rows with comments",
			input: "# DIMM slot 1\n" +
				"SPD 51 6\n" +
				"\n" +
				"0000: 01 02 03 04 = F6\n" +
				"0004: 05 06 = F1\n",
			want: &Image{Address: 0x51, Data: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}},
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: true,
			errMsg:  "empty file",
		},
		{
			name:    "bad magic",
			input:   "EEP 50 4\n0000: 01 02 03 04 = F6\n",
			wantErr: true,
			errMsg:  "header",
		},
		{
			name:    "checksum mismatch",
			input:   "SPD 50 4\n0000: 01 02 03 04 = 00\n",
			wantErr: true,
			errMsg:  "checksum mismatch",
		},
		{
			name:    "gap between rows",
			input:   "SPD 50 6\n0000: 01 02 03 04 = F6\n0005: 05 06 = F0\n",
			wantErr: true,
			errMsg:  "row offset",
		},
		{
			name:    "truncated",
			input:   "SPD 50 8\n0000: 01 02 03 04 = F6\n",
			wantErr: true,
			errMsg:  "truncated",
		},
		{
			name:    "longer than declared",
			input:   "SPD 50 2\n0000: 01 02 03 04 = F6\n",
			wantErr: true,
			errMsg:  "exceeds declared length",
		},
		{
			name:    "invalid hex",
			input:   "SPD 50 2\n0000: 0G 02 = F6\n",
			wantErr: true,
			errMsg:  "invalid hex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReader(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseReader() expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseReader() error = %v, want error containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReader() unexpected error: %v", err)
			}
			if got.Address != tt.want.Address {
				t.Errorf("Address = %s, want %s", got.Address, tt.want.Address)
			}
			if !bytes.Equal(got.Data, tt.want.Data) {
				t.Errorf("Data = % X, want % X", got.Data, tt.want.Data)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	img := &Image{Address: 0x50, Data: []byte{0x92, 0x10, 0x0C, 0x02}}

	if err := Write(&buf, img); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := "SPD 50 4\n0000: 92 10 0C 02 = 50\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}

	if err := Write(&buf, &Image{Address: 0x50}); err == nil {
		t.Error("Write() of empty image should fail")
	}
}

func TestWriteFileParse(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i*31 + 7)
	}
	path := filepath.Join(t.TempDir(), "dimm.spd")

	if err := WriteFile(path, &Image{Address: 0x53, Data: data}); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if rows := strings.Count(string(content), "\n") - 1; rows != 19 {
		t.Errorf("dump has %d rows, want 19", rows)
	}

	img, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if img.Address != 0x53 || !bytes.Equal(img.Data, data) {
		t.Errorf("Parse() = %s % X, want 0x53 % X", img.Address, img.Data, data)
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "missing.spd")); err == nil {
		t.Error("Parse() of missing file should fail")
	}
}

func TestReadBackFromReader(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(255 - i)
	}
	var buf bytes.Buffer
	if err := Write(&buf, &Image{Address: 0x52, Data: data}); err != nil {
		t.Fatal(err)
	}

	img, err := ParseReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	s := device.New(sim.New("sim0", sim.WithEEPROM(img.Address, img.Data)),
		device.WithPollInterval(0),
		device.WithRetryLimit(100),
		device.WithAddress(img.Address),
		device.WithDataLength(len(img.Data)),
	)
	defer func() { _ = s.Close() }()

	if !s.Connect() {
		t.Fatal("Connect() failed")
	}
	if got := s.Scan(protocol.FirstEEPROMAddress, protocol.LastEEPROMAddress); len(got) != 1 || got[0] != 0x52 {
		t.Errorf("Scan() = %v, want [0x52]", got)
	}

	read, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !bytes.Equal(read, data) {
		t.Errorf("ReadAll() differs from dump")
	}
}
