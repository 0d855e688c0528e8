//go:build rp2040 || rp2350

// Morse beacon firmware for the Raspberry Pi Pico family.
//
// The beacon listens for framed commands on USB CDC and keys the received
// text on the on-board LED and the piezo buzzer. Keying is blocking and
// runs in the main loop after the frame has been acknowledged, so the host
// gets its ACK before the (potentially long) transmission starts.
package main

import (
	"machine"
	"time"

	"gomorse/morse"
	"gomorse/protocol"
)

const (
	// Largest dot length whose 7x word gap still fits in uint16 ms.
	maxDotLength = 9362

	// Keyed text waiting for the main loop; beyond this, new text is
	// dropped rather than growing without bound.
	maxPendingText = 256
)

var (
	inputBuffer  *protocol.FifoBuffer
	outputBuffer *protocol.ScratchOutput
	transport    *protocol.Transport

	emitter   *morse.Emitter
	keyOutput morse.OutputPin
	dotLength uint16 = morse.DefaultDotLength
	invert    bool

	pendingText string

	msgerrors uint32
)

func main() {
	InitUSB()

	led := newGPIOPin(machine.LED)
	if buzzer, err := newBuzzerPin(); err == nil {
		keyOutput = fanoutPin{outputs: []morse.OutputPin{led, buzzer}}
	} else {
		keyOutput = led
	}
	rebuildEmitter()

	inputBuffer = protocol.NewFifoBuffer(256)
	outputBuffer = protocol.NewScratchOutput()

	transport = protocol.NewTransport(outputBuffer, handleCommand)
	transport.SetResetCallback(func() {
		// Host restarted: drop queued text and return to defaults
		pendingText = ""
		dotLength = morse.DefaultDotLength
		invert = false
		rebuildEmitter()
	})
	// Push ACKs out immediately so the host is not kept waiting
	transport.SetFlushCallback(writeUSB)

	go usbReaderLoop()

	for {
		if inputBuffer.Available() > 0 {
			data := inputBuffer.Data()
			originalLen := len(data)
			input := protocol.NewSliceInputBuffer(data)

			transport.Receive(input)

			consumed := originalLen - input.Available()
			if consumed > 0 {
				inputBuffer.Pop(consumed)
			}
		}

		writeUSB()

		// Key queued text only after the ACK left the wire. This blocks
		// the loop for the whole transmission; frames arriving meanwhile
		// wait in the FIFO.
		if pendingText != "" {
			text := pendingText
			pendingText = ""
			if err := emitter.Output(text); err != nil {
				msgerrors++
			}
		}

		time.Sleep(100 * time.Microsecond)
	}
}

// rebuildEmitter recreates the emitter after a timing or polarity change.
func rebuildEmitter() {
	emitter = morse.New(sleepDelayer{}, keyOutput, invert, dotLength)
}

// handleCommand dispatches one decoded command from an accepted frame.
func handleCommand(cmdID uint16, data *[]byte) error {
	switch cmdID {
	case protocol.CmdKeyText:
		text, err := protocol.DecodeVLQString(data)
		if err != nil {
			return err
		}
		if len(pendingText)+len(text) <= maxPendingText {
			pendingText += text
		}
		return nil

	case protocol.CmdSetTiming:
		v, err := protocol.DecodeVLQUint(data)
		if err != nil {
			return err
		}
		if v > maxDotLength {
			v = maxDotLength
		}
		if v == 0 {
			v = morse.DefaultDotLength
		}
		dotLength = uint16(v)
		rebuildEmitter()
		return nil

	case protocol.CmdSetInvert:
		v, err := protocol.DecodeVLQUint(data)
		if err != nil {
			return err
		}
		invert = v != 0
		rebuildEmitter()
		return nil
	}

	// Unknown commands are ignored so old hosts stay compatible
	return nil
}

// usbReaderLoop feeds incoming USB bytes into the input FIFO.
func usbReaderLoop() {
	for {
		if USBAvailable() > 0 {
			b, err := USBRead()
			if err != nil {
				msgerrors++
				time.Sleep(time.Millisecond)
				continue
			}
			if inputBuffer.Write([]byte{b}) == 0 {
				// FIFO full; back off and let the main loop drain it
				msgerrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// writeUSB drains the output buffer to USB, handling partial writes.
func writeUSB() {
	result := outputBuffer.Result()
	if len(result) == 0 {
		return
	}
	written := 0
	for written < len(result) {
		n, err := USBWriteBytes(result[written:])
		if err != nil || n == 0 {
			// Likely a disconnect; drop the data and move on
			msgerrors++
			break
		}
		written += n
	}
	outputBuffer.Reset()
}
