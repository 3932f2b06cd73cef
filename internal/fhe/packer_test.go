package fhe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "packer.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecPacker(t *testing.T) {
	bin := writeScript(t, `cat > /dev/null
echo '{"ciphertext":"0xdeadbeef"}'
`)
	p := &ExecPacker{Bin: bin}
	ct, err := p.Pack(context.Background(), &PackRequest{Values: []PackValue{{Bits: 8, Value: "5"}}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, ct)
}

func TestExecPackerFailure(t *testing.T) {
	bin := writeScript(t, `echo "public key unavailable" >&2
exit 3
`)
	p := &ExecPacker{Bin: bin}
	_, err := p.Pack(context.Background(), &PackRequest{})
	assert.ErrorContains(t, err, "public key unavailable")
}

func TestExecPackerEmptyCiphertext(t *testing.T) {
	bin := writeScript(t, `echo '{"ciphertext":""}'
`)
	p := &ExecPacker{Bin: bin}
	_, err := p.Pack(context.Background(), &PackRequest{})
	assert.ErrorContains(t, err, "empty ciphertext")
}

func TestDecodeHex(t *testing.T) {
	for _, in := range []string{"0x0102", "0X0102", "0102"} {
		got, err := decodeHex(in)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2}, got)
	}
	_, err := decodeHex("0xzz")
	assert.Error(t, err)
}
