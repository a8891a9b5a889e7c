// Package groq provides speech-to-text transcription through Groq's
// OpenAI-compatible API.
package groq

import (
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	BaseURL      = "https://api.groq.com/openai/v1"
	DefaultModel = "whisper-large-v3"
)

type Client struct {
	client *openai.Client
}

// NewClient creates a new Groq client wrapper with the specified API key and
// HTTP client. The HTTP client allows for custom configuration such as
// timeouts and proxy settings.
func NewClient(apiKey string, httpClient http.Client) Client {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(BaseURL),
		option.WithHTTPClient(&httpClient),
	)

	return Client{
		client: &client,
	}
}
