package fhevm

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

var (
	walletAddr   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	deployedAddr = common.HexToAddress("0x2000000000000000000000000000000000000002")
	sumHandle    = [32]byte{0xaa, 0xbb}
)

type fakePrompter struct {
	answers   []string
	secrets   []string
	questions []string
}

func (p *fakePrompter) Ask(question string, _ []string) (string, error) {
	p.questions = append(p.questions, question)
	if len(p.answers) == 0 {
		return "", errors.New("unexpected question: " + question)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *fakePrompter) Secret(question string) (string, error) {
	p.questions = append(p.questions, question)
	if len(p.secrets) == 0 {
		return "", errors.New("unexpected secret prompt: " + question)
	}
	s := p.secrets[0]
	p.secrets = p.secrets[1:]
	return s, nil
}

type fakeKeys struct {
	created   []string
	passwords []string
}

func (k *fakeKeys) Create(path string, password []byte) (common.Address, error) {
	k.created = append(k.created, path)
	k.passwords = append(k.passwords, string(password))
	return walletAddr, nil
}

func (k *fakeKeys) Load(_ string, password []byte) (*model.Wallet, error) {
	k.passwords = append(k.passwords, string(password))
	return &model.Wallet{Address: walletAddr}, nil
}

type fakeContract struct {
	address common.Address

	mu     sync.Mutex
	stored [][2][32]byte
	mined  int
	onMine func(n int)
}

func (c *fakeContract) Address() common.Address { return c.address }

func (c *fakeContract) StoreEncryptedSum(_ context.Context, a, b [32]byte, _ []byte) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored = append(c.stored, [2][32]byte{a, b})
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(c.stored))}), nil
}

func (c *fakeContract) WaitMined(ctx context.Context, _ *types.Transaction) (*types.Receipt, error) {
	c.mu.Lock()
	c.mined++
	n := c.mined
	c.mu.Unlock()
	if c.onMine != nil {
		c.onMine(n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(int64(100 + n))}, nil
}

func (c *fakeContract) EncryptedSum(context.Context) ([32]byte, error) { return sumHandle, nil }

type fakeEncryptor struct {
	encrypted [][]uint8
}

func (e *fakeEncryptor) EncryptUint8s(_ context.Context, _, _ common.Address, values ...uint8) (*model.EncryptedInput, error) {
	e.encrypted = append(e.encrypted, values)
	in := &model.EncryptedInput{InputProof: model.Buffer{byte(len(values)), 1, 0xff}}
	for i, v := range values {
		h := make([]byte, 32)
		h[0], h[21] = v, byte(i)
		in.Handles = append(in.Handles, h)
	}
	return in, nil
}

func (e *fakeEncryptor) PublicDecrypt(_ context.Context, handles ...[32]byte) (map[string]*big.Int, error) {
	out := make(map[string]*big.Int, len(handles))
	for _, h := range handles {
		out[common.Bytes2Hex(h[:4])] = big.NewInt(105)
	}
	return out, nil
}

type fakeNetwork struct {
	balance  *big.Int
	deploys  int
	// blockDeploy makes Deploy wait for ctx (or give up after deployWait)
	blockDeploy     bool
	deploySawCancel bool
	contract *fakeContract
	enc      *fakeEncryptor
	bound    []common.Address
}

func (n *fakeNetwork) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	return n.balance, nil
}

const deployWait = 2 * time.Second

func (n *fakeNetwork) Deploy(ctx context.Context, _ *model.Wallet) (common.Address, error) {
	n.deploys++
	if n.blockDeploy {
		select {
		case <-ctx.Done():
			n.deploySawCancel = true
			return common.Address{}, ctx.Err()
		case <-time.After(deployWait):
		}
	}
	return deployedAddr, nil
}

func (n *fakeNetwork) BindContract(_ context.Context, address common.Address, _ *model.Wallet) (Contract, error) {
	n.bound = append(n.bound, address)
	n.contract.address = address
	return n.contract, nil
}

func (n *fakeNetwork) NewEncryptor(context.Context) (Encryptor, error) {
	return n.enc, nil
}

type harness struct {
	cfg     *config.Config
	prompt  *fakePrompter
	keys    *fakeKeys
	net     *fakeNetwork
	dialed  []*model.NetworkProfile
	session *Session
	out     *syncBuffer
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

func writeProfile(t *testing.T, dir, name string) {
	t.Helper()
	profile := model.NetworkProfile{
		JSONRPCURL:                       "https://rpc." + name + ".example.org",
		DecryptionContractAddress:        "0x0000000000000000000000000000000000000011",
		InputVerificationContractAddress: "0x0000000000000000000000000000000000000012",
		InputVerifierContractAddress:     "0x0000000000000000000000000000000000000013",
		KMSVerifierContractAddress:       "0x0000000000000000000000000000000000000014",
		ACLContractAddress:               "0x0000000000000000000000000000000000000015",
		GatewayChainID:                   55815,
		RelayerURL:                       "https://relayer." + name + ".example.org",
	}
	data, err := json.Marshal(profile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

// newHarness builds a session over fakes in a temp workspace with
// WALLET_PASSWORD set and a funded wallet.
func newHarness(t *testing.T, answers ...string) *harness {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		KeysDir:              filepath.Join(root, "keys"),
		ContractAddressesDir: filepath.Join(root, "contract_addresses"),
		NetworksDir:          filepath.Join(root, "networks"),
		EncryptedInputFile:   filepath.Join(root, "encrypted_inputs.json"),
		RelayerTimeout:       5,
	}
	require.NoError(t, os.MkdirAll(cfg.KeysDir, 0700))
	require.NoError(t, os.MkdirAll(cfg.NetworksDir, 0755))
	writeProfile(t, cfg.NetworksDir, "dev")
	writeProfile(t, cfg.NetworksDir, "blue")
	t.Setenv(config.PasswordEnv, "hunter2")

	h := &harness{
		cfg:    cfg,
		prompt: &fakePrompter{answers: answers},
		keys:   &fakeKeys{},
		net: &fakeNetwork{
			balance:  new(big.Int).Mul(big.NewInt(1e9), big.NewInt(1e9)),
			contract: &fakeContract{},
			enc:      &fakeEncryptor{},
		},
		out: &syncBuffer{},
	}

	s, err := NewSession(Deps{
		Config: cfg,
		Prompt: h.prompt,
		Out:    h.out,
		Keys:   h.keys,
		Dial: func(_ context.Context, profile *model.NetworkProfile) (Network, error) {
			h.dialed = append(h.dialed, profile)
			return h.net, nil
		},
	}, config.NetworkDev)
	require.NoError(t, err)
	h.session = s
	return h
}

func (h *harness) addKey(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(h.cfg.KeysDir, name), []byte(`{"address":"1000000000000000000000000000000000000001"}`), 0600))
}

func (h *harness) addAddressFile(t *testing.T, name string, address common.Address) {
	t.Helper()
	require.NoError(t, os.MkdirAll(h.cfg.ContractAddressesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(h.cfg.ContractAddressesDir, name), []byte(address.Hex()+"\n"), 0644))
}

var walletFixture = model.Wallet{Address: walletAddr}
