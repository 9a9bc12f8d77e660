// Package avro encodes events in the Confluent Schema Registry wire format.
package avro

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	magicByte    byte = 0x00
	headerLength      = 5
)

var ErrInvalidWireFormat = errors.New("invalid wire format")

// frame prepends the magic byte and big-endian schema id to payload.
func frame(schemaID int, payload []byte) []byte {
	out := make([]byte, headerLength+len(payload))
	out[0] = magicByte
	binary.BigEndian.PutUint32(out[1:headerLength], uint32(schemaID))
	copy(out[headerLength:], payload)
	return out
}

// unframe splits data into schema id and Avro payload.
func unframe(data []byte) (int, []byte, error) {
	if len(data) < headerLength {
		return 0, nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidWireFormat, len(data), headerLength)
	}
	if data[0] != magicByte {
		return 0, nil, fmt.Errorf("%w: magic byte 0x%02x", ErrInvalidWireFormat, data[0])
	}
	return int(binary.BigEndian.Uint32(data[1:headerLength])), data[headerLength:], nil
}
