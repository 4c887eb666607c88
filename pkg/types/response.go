package types

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool   `json:"Success"`
	Message string `json:"Message"`
	Data    any    `json:"Data,omitempty"`
}
