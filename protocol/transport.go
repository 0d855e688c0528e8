package protocol

// CommandHandler is called for each decoded command in an accepted frame.
// data is advanced past the bytes the handler consumes.
type CommandHandler func(cmdID uint16, data *[]byte) error

// Transport is the device side of the link. It scans the incoming byte
// stream for frames, verifies CRC and sequence, dispatches commands and
// answers every frame with an ACK (an empty frame carrying the next
// expected sequence).
//
// The beacon firmware is single-threaded, so Transport keeps plain state
// and must only be used from one goroutine.
type Transport struct {
	synced  bool
	nextSeq uint8
	output  OutputBuffer
	handler CommandHandler

	resetCallback func() // called when a host reset is detected
	flushCallback func() // called to push an ACK out immediately
}

// NewTransport creates a device transport writing ACKs to output and
// dispatching commands to handler.
func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	return &Transport{
		synced:  true,
		nextSeq: MessageDest,
		output:  output,
		handler: handler,
	}
}

// Receive consumes as much of the input as possible, dispatching every
// complete frame it finds. Partial frames are left in the input for the
// next call.
func (t *Transport) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !t.synced {
			// Look for a sync byte to resynchronize on.
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				// Nothing but garbage, drop it all.
				data = nil
				break
			}
			data = data[syncPos+1:]
			t.synced = true
			t.sendAck()
			continue
		}

		// Skip leading sync bytes between frames.
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			t.synced = false
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			t.synced = false
			continue
		}

		// Wait for the full frame to arrive.
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			t.synced = false
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			t.synced = false
			continue
		}

		frame := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		// A host starting over from MessageDest means it restarted;
		// drop our sequence state and let it begin fresh.
		if seq == MessageDest && t.nextSeq != MessageDest {
			t.nextSeq = MessageDest
			if t.resetCallback != nil {
				t.resetCallback()
			}
		}

		if seq == t.nextSeq {
			t.nextSeq = ((seq + 1) & MessageSeqMask) | MessageDest
			_ = t.parseFrame(frame)
		}
		// ACK even when the sequence did not match; the carried
		// sequence then tells the host what we expected.
		t.sendAck()
	}

	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

// parseFrame dispatches every command in an accepted frame.
func (t *Transport) parseFrame(frame []byte) (err error) {
	// A panicking handler must not take the firmware down.
	defer func() {
		if r := recover(); r != nil {
			t.synced = false
		}
	}()

	for len(frame) > 0 {
		cmdID, err := DecodeVLQUint(&frame)
		if err != nil {
			t.synced = false
			return err
		}
		if t.handler != nil {
			if err := t.handler(uint16(cmdID), &frame); err != nil {
				return err
			}
		}
	}
	return nil
}

// sendAck emits an empty frame carrying the next expected sequence.
func (t *Transport) sendAck() {
	crc := CRC16([]byte{MessageLengthMin, t.nextSeq})
	t.output.Output([]byte{
		MessageLengthMin,
		t.nextSeq,
		uint8(crc >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
	if t.flushCallback != nil {
		t.flushCallback()
	}
}

// Reset returns the transport to its initial state, e.g. after the USB
// connection dropped.
func (t *Transport) Reset() {
	t.synced = true
	t.nextSeq = MessageDest
	if t.resetCallback != nil {
		t.resetCallback()
	}
}

// SetResetCallback registers a callback invoked when a host reset is
// detected.
func (t *Transport) SetResetCallback(callback func()) {
	t.resetCallback = callback
}

// SetFlushCallback registers a callback invoked right after an ACK is
// written, so the target can push it to the wire without waiting for the
// main loop.
func (t *Transport) SetFlushCallback(callback func()) {
	t.flushCallback = callback
}

// AppendFrame appends a complete frame with the given sequence byte and
// payload to dst and returns the extended slice.
func AppendFrame(dst []byte, seq uint8, payload []byte) []byte {
	msgLen := MessageHeaderSize + len(payload) + MessageTrailerSize
	dst = append(dst, uint8(msgLen), seq)
	dst = append(dst, payload...)
	crc := CRC16(dst[len(dst)-msgLen+MessageTrailerSize:])
	dst = append(dst, uint8(crc>>8), uint8(crc&0xFF), MessageValueSync)
	return dst
}
