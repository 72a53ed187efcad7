// Package llm is the thin client for the model-hosting API. The service
// treats inference as a pure function from (instructions, task) to text.
package llm

import (
	"context"
	"net/http"
	"time"
)

// sharedHTTPClient is used by all providers; a 5-minute timeout covers slow
// model responses.
var sharedHTTPClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// Request holds the parameters for a completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Response holds the result of a completion call.
type Response struct {
	Content string
	Model   string
}

// Provider is the interface for completion backends.
type Provider interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}
