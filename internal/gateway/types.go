package gateway

const DefaultListenAddress = "127.0.0.1:8787"

type statusResponse struct {
	State     string `json:"state"`
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix,omitempty"`
	StartedAt string `json:"started_at"`
}

type keysResponse struct {
	Keys []string `json:"keys"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type transferRequest struct {
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	FullyQualified bool   `json:"fully_qualified,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
