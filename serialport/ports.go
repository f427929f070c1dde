package serialport

import (
	"context"
	"fmt"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/moffa90/go-spdrw/device"
)

// PortInfo describes a serial port found on the host.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// Ports lists the serial port names available on the host.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}

// DetailedPorts lists the serial ports with USB identification when available.
func DetailedPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial port details: %w", err)
	}

	infos := make([]PortInfo, 0, len(details))
	for _, d := range details {
		infos = append(infos, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return infos, nil
}

// USBPorts returns the names of USB serial ports, optionally restricted to a
// vendor ID (case-insensitive hex, e.g. "2341" for Arduino). An empty vid
// matches every USB port.
func USBPorts(vid string) ([]string, error) {
	infos, err := DetailedPorts()
	if err != nil {
		return nil, err
	}
	return filterUSB(infos, vid), nil
}

func filterUSB(infos []PortInfo, vid string) []string {
	var names []string
	for _, info := range infos {
		if !info.IsUSB {
			continue
		}
		if vid != "" && !strings.EqualFold(info.VID, vid) {
			continue
		}
		names = append(names, info.Name)
	}
	return names
}

// FindDevices opens every host serial port in turn and returns the names of
// those with a responding reader. cfg.Port is ignored.
func FindDevices(ctx context.Context, cfg Config, opts ...device.Option) ([]string, error) {
	return device.Find(ctx, Ports, Opener(cfg), opts...)
}
