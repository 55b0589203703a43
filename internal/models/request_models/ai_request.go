package request_models

// GenerateRequest asks the generative fallback for offers in the normalized shape.
type GenerateRequest struct {
	Kind   string            `json:"kind" binding:"required,oneof=flights hotels"`
	Query  string            `json:"query"`
	Params map[string]string `json:"params"`
}
