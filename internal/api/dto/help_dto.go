package dto

// ChatMessageRequest is one user turn sent to the assistant.
type ChatMessageRequest struct {
	SessionID string `json:"sessionId"`
	UserMsg   string `json:"userMsg"`
}

// ChatReplyResponse carries the assistant's answer.
type ChatReplyResponse struct {
	Reply string `json:"reply"`
}

// ChatSessionResponse returns a new session id.
type ChatSessionResponse struct {
	SessionID string `json:"sessionId"`
}
