package protocol

import "errors"

var (
	// ErrBufferTooSmall means a VLQ value was cut off mid-encoding.
	ErrBufferTooSmall = errors.New("buffer too small for VLQ")
)

// EncodeVLQUint encodes an unsigned integer in base-128 groups, most
// significant group first, with the continuation bit set on all but the
// last byte.
func EncodeVLQUint(output OutputBuffer, v uint32) {
	if v >= 1<<28 {
		output.Output([]byte{byte(v>>28)&0x7F | 0x80})
	}
	if v >= 1<<21 {
		output.Output([]byte{byte(v>>21)&0x7F | 0x80})
	}
	if v >= 1<<14 {
		output.Output([]byte{byte(v>>14)&0x7F | 0x80})
	}
	if v >= 1<<7 {
		output.Output([]byte{byte(v>>7)&0x7F | 0x80})
	}
	output.Output([]byte{byte(v & 0x7F)})
}

// DecodeVLQUint decodes an unsigned integer from the front of the data
// slice, advancing it past the consumed bytes.
func DecodeVLQUint(data *[]byte) (uint32, error) {
	if len(*data) == 0 {
		return 0, ErrBufferTooSmall
	}

	c := uint32((*data)[0])
	*data = (*data)[1:]
	v := c & 0x7F

	for c&0x80 != 0 {
		if len(*data) == 0 {
			return 0, ErrBufferTooSmall
		}
		c = uint32((*data)[0])
		*data = (*data)[1:]
		v = (v << 7) | (c & 0x7F)
	}

	return v, nil
}

// EncodeVLQBytes encodes a byte array with a VLQ length prefix.
func EncodeVLQBytes(output OutputBuffer, data []byte) {
	EncodeVLQUint(output, uint32(len(data)))
	output.Output(data)
}

// DecodeVLQBytes decodes a length-prefixed byte array.
func DecodeVLQBytes(data *[]byte) ([]byte, error) {
	length, err := DecodeVLQUint(data)
	if err != nil {
		return nil, err
	}
	if len(*data) < int(length) {
		return nil, ErrBufferTooSmall
	}
	result := (*data)[:length]
	*data = (*data)[length:]
	return result, nil
}

// EncodeVLQString encodes a string with a VLQ length prefix.
func EncodeVLQString(output OutputBuffer, s string) {
	EncodeVLQBytes(output, []byte(s))
}

// DecodeVLQString decodes a length-prefixed string.
func DecodeVLQString(data *[]byte) (string, error) {
	bytes, err := DecodeVLQBytes(data)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
