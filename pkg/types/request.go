package types

// TranslateRequest is the body of the translate endpoints and the first WebSocket message.
// Field checks are left to the translator so callers get its messages.
type TranslateRequest struct {
	Code           string `json:"code"`
	TargetLanguage string `json:"target_language"`
	SourceLanguage string `json:"source_language"`
}

// TranslateJobResponse is returned when a streaming translation job is accepted.
type TranslateJobResponse struct {
	ID        string `json:"id"`
	StreamURL string `json:"stream_url"`
	CancelURL string `json:"cancel_url"`
}

// ErrorBody is the JSON error envelope written by the HTTP and WebSocket handlers.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
