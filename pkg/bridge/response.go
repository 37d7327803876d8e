package bridge

// SuccessResponse wraps a command result. Exactly one of SuccessResponse or
// ErrorResponse is emitted per request; no other top-level shape exists.
type SuccessResponse struct {
	Result interface{} `json:"result"`
}

// ErrorResponse wraps a command failure as a plain message
type ErrorResponse struct {
	Error string `json:"error"`
}
