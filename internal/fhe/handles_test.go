package fhe

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testACL = common.HexToAddress("0x1000000000000000000000000000000000000005")

func TestComputeHandlesLayout(t *testing.T) {
	chainID := big.NewInt(0x1234)
	handles, err := ComputeHandles([]byte("ciphertext"), []FheType{TypeUint8, TypeBool}, testACL, chainID)
	require.NoError(t, err)
	require.Len(t, handles, 2)

	for i, h := range handles {
		assert.Equal(t, byte(i), h[21], "index byte")
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x12, 0x34}, h[22:30], "chain id bytes")
		assert.Equal(t, byte(handleVersion), h[31], "version byte")
	}
	assert.Equal(t, byte(TypeUint8), handles[0][30])
	assert.Equal(t, byte(TypeBool), handles[1][30])
	assert.NotEqual(t, handles[0][:21], handles[1][:21])
}

func TestComputeHandlesDeterministic(t *testing.T) {
	a, err := ComputeHandles([]byte{1, 2, 3}, []FheType{TypeUint8}, testACL, big.NewInt(9000))
	require.NoError(t, err)
	b, err := ComputeHandles([]byte{1, 2, 3}, []FheType{TypeUint8}, testACL, big.NewInt(9000))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := ComputeHandles([]byte{1, 2, 4}, []FheType{TypeUint8}, testACL, big.NewInt(9000))
	require.NoError(t, err)
	assert.NotEqual(t, a[0][:21], c[0][:21])
}

func TestComputeHandlesLimits(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 64)
	_, err := ComputeHandles([]byte{1}, []FheType{TypeUint8}, testACL, huge)
	assert.Error(t, err)

	_, err = ComputeHandles([]byte{1}, make([]FheType, maxInputValues+1), testACL, big.NewInt(1))
	assert.Error(t, err)
}

func TestFheTypeBits(t *testing.T) {
	assert.Equal(t, 2, TypeBool.Bits())
	assert.Equal(t, 8, TypeUint8.Bits())
	assert.Equal(t, 160, TypeAddress.Bits())
	assert.Equal(t, 0, FheType(99).Bits())
}
