package fhe

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Handle layout: bytes 0..20 hash, 21 index, 22..29 chain id, 30 type, 31 version.
const (
	handleVersion = 0

	rawCiphertextDomain = "ZK-w_rct"
	handleDomain        = "ZK-w_hdl"

	maxInputValues = 255
	maxInputBits   = 2048
)

// FheType is the on-chain type tag carried in byte 30 of a handle
type FheType uint8

const (
	TypeBool    FheType = 0
	TypeUint8   FheType = 2
	TypeUint16  FheType = 3
	TypeUint32  FheType = 4
	TypeUint64  FheType = 5
	TypeUint128 FheType = 6
	TypeAddress FheType = 7
	TypeUint256 FheType = 8
)

// Bits returns the plaintext width used when packing a value of this type
func (t FheType) Bits() int {
	switch t {
	case TypeBool:
		return 2
	case TypeUint8:
		return 8
	case TypeUint16:
		return 16
	case TypeUint32:
		return 32
	case TypeUint64:
		return 64
	case TypeUint128:
		return 128
	case TypeAddress:
		return 160
	case TypeUint256:
		return 256
	}
	return 0
}

// ComputeHandles derives the handle of every value packed into ciphertext.
func ComputeHandles(ciphertext []byte, types []FheType, acl common.Address, chainID *big.Int) ([][32]byte, error) {
	if len(types) > maxInputValues {
		return nil, fmt.Errorf("too many values in one input: %d (max %d)", len(types), maxInputValues)
	}
	if chainID == nil || chainID.Sign() < 0 || chainID.BitLen() > 64 {
		return nil, fmt.Errorf("chain id must fit in 8 bytes")
	}

	blobHash := keccak([]byte(rawCiphertextDomain), ciphertext)
	chainID32 := common.LeftPadBytes(chainID.Bytes(), 32)

	var chainID8 [8]byte
	binary.BigEndian.PutUint64(chainID8[:], chainID.Uint64())

	handles := make([][32]byte, len(types))
	for i, t := range types {
		hash := keccak([]byte(handleDomain), blobHash, []byte{byte(i)}, acl.Bytes(), chainID32)

		var h [32]byte
		copy(h[:21], hash[:21])
		h[21] = byte(i)
		copy(h[22:30], chainID8[:])
		h[30] = byte(t)
		h[31] = handleVersion
		handles[i] = h
	}
	return handles, nil
}

func keccak(parts ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
