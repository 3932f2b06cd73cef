package model

// ErrorResponse is the JSON body the relayer returns on a failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
