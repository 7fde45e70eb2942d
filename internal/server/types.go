package server

// MashupRequest is the body of POST /create-mashup.
type MashupRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// RecommendResponse lists the nearest songs to the requested one.
type RecommendResponse struct {
	Recommendations []string `json:"recommendations"`
}

// MessageResponse represents a generic message payload used for success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a generic error payload used for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
