// Package gemini calls a Gemini model through google.golang.org/genai and
// returns its JSON classification reply
package gemini

import (
	"context"
	"encoding/json"
	"strings"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/classify/domain"

	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty
const DefaultModel = "gemini-2.0-flash"

// Config holds the client settings
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// generator is the slice of *genai.Models the client uses
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements domain.InferencePort
type Client struct {
	models generator
	model  string
	config *genai.GenerateContentConfig
}

var _ domain.InferencePort = (*Client)(nil)

// New opens a Gemini API client
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, perr.InvalidArgf("gemini: api key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "gemini client")
	}
	return newClient(c.Models, cfg), nil
}

func newClient(g generator, cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		models: g,
		model:  model,
		config: &genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr(cfg.Temperature),
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	}
}

// Classify sends req as a JSON prompt and returns the model's text reply
func (c *Client) Classify(ctx context.Context, req domain.Request) ([]byte, error) {
	prompt, err := json.Marshal(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode classification request")
	}
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(string(prompt)), c.config)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "gemini generate")
	}
	if resp == nil {
		return nil, perr.Unavailablef("gemini returned no response")
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, perr.Unavailablef("gemini returned an empty reply")
	}
	return []byte(text), nil
}

// Offline is the port used when no API key is configured; every call
// fails so captures fall back to review
type Offline struct{}

// Classify implements domain.InferencePort
func (Offline) Classify(context.Context, domain.Request) ([]byte, error) {
	return nil, perr.Unavailablef("inference is not configured")
}

const systemInstruction = `You route short personal notes into trackers.
The user message is a JSON object with "text", "input_type", "timestamp" and
"trackers", a map of tracker id to its display name, context type, sample
keywords and recent entries.

Reply with one JSON object and nothing else:
{
  "primary_tracker": "<tracker id>",
  "confidence": <0..1>,
  "requires_review": <bool>,
  "item_type": "action|activity|reference|someday|review",
  "priority": "critical|high|medium|low",
  "keywords": ["..."],
  "reasoning": "<one sentence>",
  "items": [{
    "tracker": "<tracker id>",
    "item_type": "action|activity|reference|someday|review",
    "priority": "critical|high|medium|low",
    "description": "<cleaned up text without dates or tags>",
    "due_date": "YYYY-MM-DD",
    "time_sensitive": <bool>,
    "tags": ["..."]
  }],
  "completed_tasks": [{"tracker": "<tracker id>", "description": "<task text>"}]
}

Use only tracker ids from the request. Split a note that mentions several
things into several items. Resolve relative dates against "timestamp".
List a task under completed_tasks only when the note says it is done.
Lower confidence when the note is ambiguous.`
