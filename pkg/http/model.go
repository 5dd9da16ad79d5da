package http

// OKResponse is the webhook acknowledgement body. Deduped is set only when a
// duplicate signal was suppressed.
type OKResponse struct {
	OK      bool `json:"ok"`
	Deduped bool `json:"deduped,omitempty"`
}

// ErrResponse is the body for rejected or failed webhook requests.
type ErrResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
