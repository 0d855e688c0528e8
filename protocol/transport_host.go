package protocol

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultAckTimeout is how long SendCommand waits for the device ACK.
const DefaultAckTimeout = 2 * time.Second

// HostTransport is the host side of the link. It frames outgoing commands,
// tracks the 4-bit sequence window and matches device ACKs against it. A
// background goroutine drains the serial port.
type HostTransport struct {
	port io.ReadWriteCloser

	mu         sync.Mutex // guards currentSeq and port writes
	currentSeq uint8

	// readLoop-only state
	synced bool
	input  *FifoBuffer

	ackChan  chan uint8 // sequence carried by received ACK frames
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewHostTransport creates a host transport on an open port and starts its
// background reader.
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:       port,
		currentSeq: MessageDest,
		synced:     true,
		input:      NewFifoBuffer(512),
		ackChan:    make(chan uint8, 1),
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// SendCommand frames and sends one command, then waits for the device ACK.
func (t *HostTransport) SendCommand(cmdID uint16, args func(output OutputBuffer)) error {
	return t.SendCommandWithTimeout(cmdID, args, DefaultAckTimeout)
}

// SendCommandWithTimeout is SendCommand with an explicit ACK timeout.
func (t *HostTransport) SendCommandWithTimeout(cmdID uint16, args func(output OutputBuffer), timeout time.Duration) error {
	scratch := NewScratchOutput()
	EncodeVLQUint(scratch, uint32(cmdID))
	if args != nil {
		args(scratch)
	}
	payload := scratch.Result()

	msgLen := MessageHeaderSize + len(payload) + MessageTrailerSize
	if msgLen > MessageLengthMax {
		return fmt.Errorf("message too long: %d bytes (max %d)", msgLen, MessageLengthMax)
	}

	t.mu.Lock()
	seq := t.currentSeq
	msg := AppendFrame(nil, seq, payload)
	n, err := t.port.Write(msg)
	t.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if n != len(msg) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(msg))
	}

	return t.waitForAck(seq, timeout)
}

// waitForAck blocks until the device acknowledges the frame sent with seq.
// The ACK carries the device's next expected sequence, i.e. seq+1 on
// success; anything else resynchronizes our counter and reports an error.
func (t *HostTransport) waitForAck(seq uint8, timeout time.Duration) error {
	expected := ((seq + 1) & MessageSeqMask) | MessageDest

	select {
	case ackSeq := <-t.ackChan:
		t.mu.Lock()
		t.currentSeq = ackSeq
		t.mu.Unlock()
		if ackSeq != expected {
			return fmt.Errorf("device NAK: expected seq 0x%02x, got 0x%02x", expected, ackSeq)
		}
		return nil

	case <-time.After(timeout):
		return fmt.Errorf("ACK timeout after %v", timeout)

	case <-t.stopChan:
		return fmt.Errorf("transport stopped")
	}
}

// readLoop drains the serial port and feeds the frame parser.
func (t *HostTransport) readLoop() {
	defer close(t.doneChan)

	buffer := make([]byte, 256)
	for {
		select {
		case <-t.stopChan:
			return
		default:
		}

		n, err := t.port.Read(buffer)
		if err != nil {
			if err == io.EOF {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if n > 0 {
			t.input.Write(buffer[:n])
			t.processFrames()
		}
	}
}

// processFrames parses complete frames out of the input buffer. Only ACKs
// (empty frames) are expected from the beacon; their sequence is forwarded
// to whoever is waiting in waitForAck.
func (t *HostTransport) processFrames() {
	data := t.input.Data()

	for len(data) > 0 {
		if !t.synced {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			t.synced = true
			continue
		}

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

		seq := data[MessagePositionSeq]
		payloadLen := msgLen - MessageHeaderSize - MessageTrailerSize
		data = data[msgLen:]

		if payloadLen == 0 {
			// ACK/NAK; hand the sequence to the sender. Drop it if
			// nobody is waiting (stale ACK after a timeout).
			select {
			case t.ackChan <- seq:
			default:
			}
		}
		// The beacon sends nothing but ACKs; other frames are ignored.
	}

	consumed := t.input.Available() - len(data)
	if consumed > 0 {
		t.input.Pop(consumed)
	}
}

// Close stops the reader and closes the underlying port. The port is
// closed first so a reader blocked in Read wakes up and exits.
func (t *HostTransport) Close() error {
	close(t.stopChan)
	var err error
	if t.port != nil {
		err = t.port.Close()
	}
	<-t.doneChan
	return err
}
