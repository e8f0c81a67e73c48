package model

// Answer source tags. Every answer produced by the router carries exactly one.
const (
	SourceKeyword     = "keyword"      // canned answer from the keyword table
	SourceRAGLLM      = "rag_llm"      // model answer conditioned on retrieved context
	SourceRAGDocument = "rag_document" // raw retrieved context, model unavailable
	SourceLLM         = "llm"          // plain model answer without context
	SourceNone        = "none"         // retrieval found nothing usable
	SourceError       = "error"        // unexpected internal failure
)

// Answer is the uniform response record produced for every /generate request.
// It is built fresh per request and never persisted.
type Answer struct {
	Response   string              `json:"response"`
	TokensUsed int                 `json:"tokens_used"`
	Model      string              `json:"model"`
	Language   string              `json:"language"`
	Source     string              `json:"source"`
	Documents  []RetrievedDocument `json:"documents,omitempty"`
	UserID     string              `json:"user_id"`
	Error      string              `json:"error,omitempty"`
}
