package protocol

import (
	"testing"
)

func TestVLQEncodeDecodeUint(t *testing.T) {
	testCases := []uint32{
		0,
		1,
		127,
		128,
		255,
		300,
		1000,
		9362,
		65535,
		1000000,
		1 << 28,
		0xFFFFFFFF,
	}

	for _, expected := range testCases {
		output := NewScratchOutput()
		EncodeVLQUint(output, expected)
		encoded := output.Result()

		data := encoded
		decoded, err := DecodeVLQUint(&data)
		if err != nil {
			t.Errorf("Failed to decode VLQ for value %d: %v", expected, err)
			continue
		}

		if decoded != expected {
			t.Errorf("VLQ mismatch: expected %d, got %d (encoded as %v)", expected, decoded, encoded)
		}

		if len(data) != 0 {
			t.Errorf("VLQ decode didn't consume all bytes for value %d: %d bytes remaining", expected, len(data))
		}
	}
}

func TestVLQSingleByteValues(t *testing.T) {
	// Values below 128 must encode to exactly one byte with no
	// continuation bit.
	for _, v := range []uint32{0, 1, 64, 127} {
		output := NewScratchOutput()
		EncodeVLQUint(output, v)
		encoded := output.Result()
		if len(encoded) != 1 || encoded[0]&0x80 != 0 {
			t.Errorf("value %d: expected single clean byte, got %v", v, encoded)
		}
	}
}

func TestVLQString(t *testing.T) {
	testCases := []string{
		"",
		"SOS",
		"hello world",
		"CQ CQ CQ DE GOMORSE",
	}

	for _, expected := range testCases {
		output := NewScratchOutput()
		EncodeVLQString(output, expected)
		encoded := output.Result()

		data := encoded
		decoded, err := DecodeVLQString(&data)
		if err != nil {
			t.Errorf("Failed to decode string %q: %v", expected, err)
			continue
		}

		if decoded != expected {
			t.Errorf("String mismatch: expected %q, got %q", expected, decoded)
		}
	}
}

func TestVLQBufferTooSmall(t *testing.T) {
	// Continuation byte with nothing following it
	data := []byte{0x80}
	if _, err := DecodeVLQUint(&data); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}

	// Length prefix longer than the remaining data
	data = []byte{5, 'a', 'b'}
	if _, err := DecodeVLQBytes(&data); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall for short byte array, got %v", err)
	}

	// Empty input
	data = nil
	if _, err := DecodeVLQUint(&data); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall for empty input, got %v", err)
	}
}
