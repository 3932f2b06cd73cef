package model

// InputProofRequest is the body of POST /v1/input-proof
type InputProofRequest struct {
	ContractAddress                 string `json:"contractAddress"`
	UserAddress                     string `json:"userAddress"`
	CiphertextWithInputVerification string `json:"ciphertextWithInputVerification"`
	ContractChainID                 string `json:"contractChainId"`
	ExtraData                       string `json:"extraData"`
}

// InputProofResult carries the verified handles and the coprocessor signatures over them
type InputProofResult struct {
	Handles    []string `json:"handles"`
	Signatures []string `json:"signatures"`
}

// InputProofResponse is the body returned by POST /v1/input-proof
type InputProofResponse struct {
	Response InputProofResult `json:"response"`
}

// PublicDecryptRequest is the body of POST /v1/public-decrypt
type PublicDecryptRequest struct {
	CiphertextHandles []string `json:"ciphertextHandles"`
	ExtraData         string   `json:"extraData"`
}

// DecryptionResult is the ABI-encoded plaintexts with the KMS signatures over them
type DecryptionResult struct {
	DecryptedValue string   `json:"decrypted_value"`
	Signatures     []string `json:"signatures"`
}

// PublicDecryptResponse is the body returned by POST /v1/public-decrypt
type PublicDecryptResponse struct {
	Response []DecryptionResult `json:"response"`
}
