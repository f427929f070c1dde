// Package config loads reader settings from YAML files.
//
// A minimal file:
//
//	serial:
//	  port: /dev/ttyUSB0
//	eeprom:
//	  address: 0x50
//	  data_length: 512
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-spdrw/device"
	"github.com/moffa90/go-spdrw/logging"
	"github.com/moffa90/go-spdrw/protocol"
	"github.com/moffa90/go-spdrw/serialport"
)

// Config is the root of a configuration file.
type Config struct {
	Serial serialport.Config `yaml:"serial"`
	Engine EngineConfig      `yaml:"engine"`
	EEPROM EEPROMConfig      `yaml:"eeprom"`
	Log    logging.Config    `yaml:"log"`
}

// EngineConfig controls response polling.
type EngineConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	RetryLimit   int           `yaml:"retry_limit"`
}

// EEPROMConfig selects the target EEPROM and the scan range.
type EEPROMConfig struct {
	// Address is the target EEPROM; zero means none.
	Address    int `yaml:"address"`
	DataLength int `yaml:"data_length"`
	ScanStart  int `yaml:"scan_start"`
	ScanEnd    int `yaml:"scan_end"`
}

// Default returns the configuration used when a file omits a setting.
func Default() Config {
	return Config{
		Serial: serialport.Config{
			BaudRate:    serialport.DefaultBaudRate,
			LineEnding:  serialport.DefaultLineEnding,
			ReadTimeout: serialport.DefaultReadTimeout,
		},
		Engine: EngineConfig{
			PollInterval: device.DefaultPollInterval,
			RetryLimit:   device.DefaultRetryLimit,
		},
		EEPROM: EEPROMConfig{
			ScanStart: int(protocol.FirstEEPROMAddress),
			ScanEnd:   int(protocol.LastEEPROMAddress),
		},
		Log: logging.Config{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over Default and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Serial.BaudRate < 0 {
		return fmt.Errorf("serial.baud_rate must not be negative, got %d", c.Serial.BaudRate)
	}
	if c.Engine.PollInterval < 0 {
		return fmt.Errorf("engine.poll_interval must not be negative, got %s", c.Engine.PollInterval)
	}
	if c.Engine.RetryLimit <= 0 {
		return fmt.Errorf("engine.retry_limit must be positive, got %d", c.Engine.RetryLimit)
	}
	if err := checkAddress("eeprom.address", c.EEPROM.Address); err != nil {
		return err
	}
	if c.EEPROM.DataLength < 0 {
		return fmt.Errorf("eeprom.data_length must not be negative, got %d", c.EEPROM.DataLength)
	}
	if err := checkAddress("eeprom.scan_start", c.EEPROM.ScanStart); err != nil {
		return err
	}
	if err := checkAddress("eeprom.scan_end", c.EEPROM.ScanEnd); err != nil {
		return err
	}
	if c.EEPROM.ScanStart > c.EEPROM.ScanEnd {
		return fmt.Errorf("eeprom.scan_start 0x%02X is above scan_end 0x%02X",
			c.EEPROM.ScanStart, c.EEPROM.ScanEnd)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func checkAddress(field string, v int) error {
	if v < 0 || v > 0x7F {
		return fmt.Errorf("%s must be a 7-bit address, got %d", field, v)
	}
	return nil
}

// ScanRange returns the configured scan bounds.
func (c Config) ScanRange() (start, end protocol.Address) {
	return protocol.Address(c.EEPROM.ScanStart), protocol.Address(c.EEPROM.ScanEnd)
}

// Options converts the engine and EEPROM settings into session options.
func (c Config) Options() []device.Option {
	opts := []device.Option{
		device.WithPollInterval(c.Engine.PollInterval),
		device.WithRetryLimit(c.Engine.RetryLimit),
	}
	if c.EEPROM.Address != 0 {
		opts = append(opts, device.WithAddress(protocol.Address(c.EEPROM.Address)))
	}
	if c.EEPROM.DataLength > 0 {
		opts = append(opts, device.WithDataLength(c.EEPROM.DataLength))
	}
	return opts
}
