// Package keyer drives a remote morse beacon over its framed serial link.
package keyer

import (
	"fmt"

	"gomorse/host/serial"
	"gomorse/protocol"
)

// MaxTextLen is the longest text carried by a single frame. Longer messages
// are split; the split is invisible on the air because every letter already
// ends with its own inter-letter gap.
const MaxTextLen = 48

// Keyer represents a connection to a morse beacon.
//
// An acknowledged command means the beacon accepted it; the actual keying
// happens after the ACK and takes as long as the message is long.
type Keyer struct {
	transport *protocol.HostTransport
	port      serial.Port
	connected bool
}

// New creates a Keyer that is not yet connected.
func New() *Keyer {
	return &Keyer{}
}

// Connect opens the given serial device with default settings.
func (k *Keyer) Connect(device string) error {
	return k.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a serial port with a custom configuration.
func (k *Keyer) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	k.ConnectPort(port)
	return nil
}

// ConnectPort attaches the keyer to an already open port. Used by tests and
// by callers with their own transport.
func (k *Keyer) ConnectPort(port serial.Port) {
	k.port = port
	k.transport = protocol.NewHostTransport(port)
	k.connected = true
}

// KeyText sends text to the beacon for transmission.
func (k *Keyer) KeyText(text string) error {
	if !k.connected {
		return fmt.Errorf("not connected")
	}

	for len(text) > 0 {
		chunk := text
		if len(chunk) > MaxTextLen {
			chunk = chunk[:MaxTextLen]
		}
		text = text[len(chunk):]

		err := k.transport.SendCommand(protocol.CmdKeyText, func(output protocol.OutputBuffer) {
			protocol.EncodeVLQString(output, chunk)
		})
		if err != nil {
			return fmt.Errorf("failed to key %q: %w", chunk, err)
		}
	}
	return nil
}

// SetTiming sets the beacon's dot length in milliseconds.
func (k *Keyer) SetTiming(dotLength uint16) error {
	if !k.connected {
		return fmt.Errorf("not connected")
	}
	err := k.transport.SendCommand(protocol.CmdSetTiming, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(dotLength))
	})
	if err != nil {
		return fmt.Errorf("failed to set timing: %w", err)
	}
	return nil
}

// SetInvert sets the beacon's drive polarity.
func (k *Keyer) SetInvert(invert bool) error {
	if !k.connected {
		return fmt.Errorf("not connected")
	}
	var v uint32
	if invert {
		v = 1
	}
	err := k.transport.SendCommand(protocol.CmdSetInvert, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, v)
	})
	if err != nil {
		return fmt.Errorf("failed to set polarity: %w", err)
	}
	return nil
}

// Close shuts down the transport and the underlying port.
func (k *Keyer) Close() error {
	if !k.connected {
		return nil
	}
	k.connected = false
	return k.transport.Close()
}
