package fhe

import (
	"fmt"
)

const signatureLen = 65

// BuildInputProof assembles the proof blob the host contracts accept:
// numHandles | numSigners | handles | signatures | extraData.
func BuildInputProof(handles [][32]byte, signatures [][]byte, extraData []byte) ([]byte, error) {
	if len(handles) > 255 {
		return nil, fmt.Errorf("too many handles: %d", len(handles))
	}
	if len(signatures) > 255 {
		return nil, fmt.Errorf("too many signatures: %d", len(signatures))
	}

	proof := make([]byte, 0, 2+32*len(handles)+signatureLen*len(signatures)+len(extraData))
	proof = append(proof, byte(len(handles)), byte(len(signatures)))
	for _, h := range handles {
		proof = append(proof, h[:]...)
	}
	for i, sig := range signatures {
		if len(sig) != signatureLen {
			return nil, fmt.Errorf("signature %d has length %d, want %d", i, len(sig), signatureLen)
		}
		proof = append(proof, sig...)
	}
	return append(proof, extraData...), nil
}
