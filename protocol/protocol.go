// Package protocol implements the framed serial link between a host and a
// morse beacon. Frames carry a command ID plus VLQ-encoded arguments and are
// protected by a CRC16 and a trailing sync byte, so either side can recover
// from garbage on the wire by scanning for the next sync.
package protocol

// Frame layout: [len][seq][payload...][crc hi][crc lo][sync]
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E

	// The sequence byte carries a 4-bit counter in its low nibble and
	// MessageDest in the high bits.
	MessageDest    = 0x10
	MessageSeqMask = 0x0F
)

// MessageMax is the scratch buffer size for outgoing data.
const MessageMax = 128

// Command IDs understood by the beacon firmware.
const (
	// CmdKeyText keys a text message; argument is a VLQ string.
	CmdKeyText = 1
	// CmdSetTiming sets the dot length; argument is a VLQ uint in ms.
	CmdSetTiming = 2
	// CmdSetInvert sets the drive polarity; argument is a VLQ uint, 0 or 1.
	CmdSetInvert = 3
)
