package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Buffer is a byte slice serialized the way Node.js serializes a Buffer:
// {"type":"Buffer","data":[1,2,3]}. Plain JSON arrays are accepted on decode.
type Buffer []byte

// MarshalJSON implements json.Marshaler
func (b Buffer) MarshalJSON() ([]byte, error) {
	var out bytes.Buffer
	out.WriteString(`{"type":"Buffer","data":[`)
	for i, v := range b {
		if i > 0 {
			out.WriteByte(',')
		}
		out.WriteString(strconv.Itoa(int(v)))
	}
	out.WriteString(`]}`)
	return out.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (b *Buffer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}

	var values []int
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to decode byte array: %w", err)
		}
	} else {
		var wrapped struct {
			Type string `json:"type"`
			Data []int  `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("failed to decode buffer: %w", err)
		}
		if wrapped.Type != "Buffer" {
			return fmt.Errorf("unexpected buffer type %q", wrapped.Type)
		}
		values = wrapped.Data
	}

	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte value out of range at index %d: %d", i, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// EncryptedInput is the ciphertext handles plus the proof accepted by the contract
// for one encryption call.
type EncryptedInput struct {
	Handles    []Buffer `json:"handles"`
	InputProof Buffer   `json:"inputProof"`
}

// Handle returns handle i as a bytes32 contract argument
func (in *EncryptedInput) Handle(i int) ([32]byte, error) {
	var h [32]byte
	if i < 0 || i >= len(in.Handles) {
		return h, fmt.Errorf("handle index %d out of range (have %d)", i, len(in.Handles))
	}
	if len(in.Handles[i]) != len(h) {
		return h, fmt.Errorf("handle %d has length %d, want %d", i, len(in.Handles[i]), len(h))
	}
	copy(h[:], in.Handles[i])
	return h, nil
}
