package fhe

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// ErrHandleMismatch is returned when the relayer signs handles other than the ones derived locally
var ErrHandleMismatch = errors.New("relayer handles do not match the encrypted input")

var extraData = []byte{0x00}

// Relayer is the relayer HTTP API used by Instance
type Relayer interface {
	InputProof(ctx context.Context, req *model.InputProofRequest) (*model.InputProofResponse, error)
	PublicDecrypt(ctx context.Context, req *model.PublicDecryptRequest) (*model.PublicDecryptResponse, error)
}

// DecryptionACL answers whether a handle may be publicly decrypted
type DecryptionACL interface {
	IsAllowedForDecryption(ctx context.Context, handle [32]byte) (bool, error)
}

// Config holds everything an Instance is bound to
type Config struct {
	Profile *model.NetworkProfile
	ChainID *big.Int
	Relayer Relayer
	Packer  Packer
	ACL     DecryptionACL
	Signers SignerSource
	Logger  *zap.Logger
}

// Instance is the client-side FHE context for one network
type Instance struct {
	profile *model.NetworkProfile
	chainID *big.Int
	relayer Relayer
	packer  Packer
	acl     DecryptionACL
	signers SignerSource
	logger  *zap.Logger
}

// NewInstance validates cfg and builds an Instance
func NewInstance(cfg Config) (*Instance, error) {
	switch {
	case cfg.Profile == nil:
		return nil, errors.New("network profile is required")
	case cfg.ChainID == nil:
		return nil, errors.New("chain id is required")
	case cfg.Relayer == nil:
		return nil, errors.New("relayer is required")
	case cfg.Packer == nil:
		return nil, errors.New("packer is required")
	case cfg.ACL == nil:
		return nil, errors.New("ACL is required")
	case cfg.Signers == nil:
		return nil, errors.New("signer source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instance{
		profile: cfg.Profile,
		chainID: new(big.Int).Set(cfg.ChainID),
		relayer: cfg.Relayer,
		packer:  cfg.Packer,
		acl:     cfg.ACL,
		signers: cfg.Signers,
		logger:  logger,
	}, nil
}

// EncryptedInputBuilder collects plaintexts bound to one (contract, user) pair
type EncryptedInputBuilder struct {
	inst     *Instance
	contract common.Address
	user     common.Address
	types    []FheType
	values   []*big.Int
	bits     int
}

// CreateEncryptedInput starts an input bound to contract and user
func (i *Instance) CreateEncryptedInput(contract, user common.Address) *EncryptedInputBuilder {
	return &EncryptedInputBuilder{inst: i, contract: contract, user: user}
}

// AddBool appends an encrypted boolean
func (b *EncryptedInputBuilder) AddBool(v bool) *EncryptedInputBuilder {
	n := big.NewInt(0)
	if v {
		n.SetInt64(1)
	}
	return b.add(TypeBool, n)
}

// Add8 appends an encrypted 8-bit unsigned integer
func (b *EncryptedInputBuilder) Add8(v uint8) *EncryptedInputBuilder {
	return b.add(TypeUint8, big.NewInt(int64(v)))
}

func (b *EncryptedInputBuilder) add(t FheType, v *big.Int) *EncryptedInputBuilder {
	b.types = append(b.types, t)
	b.values = append(b.values, v)
	b.bits += t.Bits()
	return b
}

// Encrypt packs the values, obtains coprocessor signatures and assembles the input proof
func (b *EncryptedInputBuilder) Encrypt(ctx context.Context) (*model.EncryptedInput, error) {
	if len(b.types) == 0 {
		return nil, errors.New("encrypted input has no values")
	}
	if len(b.types) > maxInputValues || b.bits > maxInputBits {
		return nil, fmt.Errorf("encrypted input too large: %d values, %d bits (max %d values, %d bits)",
			len(b.types), b.bits, maxInputValues, maxInputBits)
	}

	inst := b.inst
	req := &PackRequest{
		ContractAddress:    b.contract.Hex(),
		UserAddress:        b.user.Hex(),
		ACLContractAddress: inst.profile.ACL().Hex(),
		ChainID:            inst.chainID.String(),
		RelayerURL:         inst.profile.RelayerURL,
	}
	for i, t := range b.types {
		req.Values = append(req.Values, PackValue{Bits: t.Bits(), Value: b.values[i].String()})
	}

	ciphertext, err := inst.packer.Pack(ctx, req)
	if err != nil {
		return nil, err
	}

	handles, err := ComputeHandles(ciphertext, b.types, inst.profile.ACL(), inst.chainID)
	if err != nil {
		return nil, err
	}

	resp, err := inst.relayer.InputProof(ctx, &model.InputProofRequest{
		ContractAddress:                 b.contract.Hex(),
		UserAddress:                     b.user.Hex(),
		CiphertextWithInputVerification: hex.EncodeToString(ciphertext),
		ContractChainID:                 hexutil.EncodeBig(inst.chainID),
		ExtraData:                       hexutil.Encode(extraData),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Response.Handles) != len(handles) {
		return nil, fmt.Errorf("%w: got %d handles, want %d", ErrHandleMismatch, len(resp.Response.Handles), len(handles))
	}
	for i, raw := range resp.Response.Handles {
		got, err := decodeHex(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode relayer handle %d: %w", i, err)
		}
		if !bytes.Equal(got, handles[i][:]) {
			return nil, fmt.Errorf("%w: index %d", ErrHandleMismatch, i)
		}
	}

	signatures, err := decodeSignatures(resp.Response.Signatures)
	if err != nil {
		return nil, err
	}
	digest, err := inputVerificationDigest(inst.profile.GatewayChainID, inst.profile.InputVerification(),
		handles, b.user, b.contract, inst.chainID, extraData)
	if err != nil {
		return nil, err
	}
	set, err := inst.signers.CoprocessorSigners(ctx)
	if err != nil {
		return nil, err
	}
	if err := verifySignatures(digest, signatures, set); err != nil {
		return nil, fmt.Errorf("coprocessor attestation rejected: %w", err)
	}

	proof, err := BuildInputProof(handles, signatures, extraData)
	if err != nil {
		return nil, err
	}

	out := &model.EncryptedInput{InputProof: proof}
	for _, h := range handles {
		out.Handles = append(out.Handles, model.Buffer(append([]byte(nil), h[:]...)))
	}

	inst.logger.Debug("Input proof assembled",
		zap.Int("handles", len(handles)),
		zap.Int("signatures", len(signatures)),
		zap.Int("ciphertext_bytes", len(ciphertext)))
	return out, nil
}

// EncryptUint8s encrypts values as euint8 inputs bound to (contract, user)
func (i *Instance) EncryptUint8s(ctx context.Context, contract, user common.Address, values ...uint8) (*model.EncryptedInput, error) {
	b := i.CreateEncryptedInput(contract, user)
	for _, v := range values {
		b.Add8(v)
	}
	return b.Encrypt(ctx)
}

// PublicDecrypt resolves publicly decryptable handles to their plaintexts, keyed by 0x-prefixed handle.
func (i *Instance) PublicDecrypt(ctx context.Context, handles ...[32]byte) (map[string]*big.Int, error) {
	if len(handles) == 0 {
		return nil, errors.New("no handles to decrypt")
	}

	req := &model.PublicDecryptRequest{ExtraData: hexutil.Encode(extraData)}
	for _, h := range handles {
		allowed, err := i.acl.IsAllowedForDecryption(ctx, h)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("handle %s is not allowed for public decryption", hexutil.Encode(h[:]))
		}
		req.CiphertextHandles = append(req.CiphertextHandles, hexutil.Encode(h[:]))
	}

	resp, err := i.relayer.PublicDecrypt(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Response) == 0 {
		return nil, errors.New("relayer returned no decryption result")
	}

	raw, err := decodeHex(resp.Response[0].DecryptedValue)
	if err != nil {
		return nil, fmt.Errorf("failed to decode decrypted value: %w", err)
	}
	if len(raw) < 32*len(handles) {
		return nil, fmt.Errorf("decrypted value has %d bytes, want at least %d", len(raw), 32*len(handles))
	}

	signatures, err := decodeSignatures(resp.Response[0].Signatures)
	if err != nil {
		return nil, err
	}
	digest, err := publicDecryptionDigest(i.profile.GatewayChainID, i.profile.Decryption(), handles, raw, extraData)
	if err != nil {
		return nil, err
	}
	set, err := i.signers.KMSSigners(ctx)
	if err != nil {
		return nil, err
	}
	if err := verifySignatures(digest, signatures, set); err != nil {
		return nil, fmt.Errorf("KMS attestation rejected: %w", err)
	}

	result := make(map[string]*big.Int, len(handles))
	for idx, h := range handles {
		result[hexutil.Encode(h[:])] = new(big.Int).SetBytes(raw[32*idx : 32*(idx+1)])
	}
	return result, nil
}

func decodeSignatures(raw []string) ([][]byte, error) {
	out := make([][]byte, len(raw))
	for i, r := range raw {
		sig, err := decodeHex(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode relayer signature %d: %w", i, err)
		}
		out[i] = sig
	}
	return out, nil
}
