package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

const (
	inputProofPath    = "/v1/input-proof"
	publicDecryptPath = "/v1/public-decrypt"
)

// RelayerError is a non-2xx answer from the relayer
type RelayerError struct {
	StatusCode int
	Message    string
}

func (e *RelayerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relayer returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("relayer returned status %d: %s", e.StatusCode, e.Message)
}

// IsRelayerError checks if error is RelayerError
func IsRelayerError(err error) bool {
	var target *RelayerError
	return errors.As(err, &target)
}

// RelayerClient client for the fhEVM relayer HTTP API
type RelayerClient struct {
	baseURL string
	client  *http.Client
}

// NewRelayerClient creates a new relayer client
func NewRelayerClient(baseURL string, timeout time.Duration) *RelayerClient {
	return &RelayerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// InputProof asks the coprocessors to verify a packed ciphertext and sign its handles
func (c *RelayerClient) InputProof(ctx context.Context, req *model.InputProofRequest) (*model.InputProofResponse, error) {
	var resp model.InputProofResponse
	if err := c.post(ctx, inputProofPath, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get input proof: %w", err)
	}
	return &resp, nil
}

// PublicDecrypt asks the KMS to decrypt publicly decryptable handles
func (c *RelayerClient) PublicDecrypt(ctx context.Context, req *model.PublicDecryptRequest) (*model.PublicDecryptResponse, error) {
	var resp model.PublicDecryptResponse
	if err := c.post(ctx, publicDecryptPath, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to public decrypt: %w", err)
	}
	return &resp, nil
}

func (c *RelayerClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		relayerErr := &RelayerError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var errResp model.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && (errResp.Message != "" || errResp.Error != "") {
			relayerErr.Message = errResp.Message
			if relayerErr.Message == "" {
				relayerErr.Message = errResp.Error
			}
		} else {
			relayerErr.Message = strings.TrimSpace(string(raw))
		}
		return relayerErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
