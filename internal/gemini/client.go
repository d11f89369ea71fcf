package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/models"
)

var (
	// ErrNoAPIKey is returned when no Gemini API key is configured
	ErrNoAPIKey = errors.New("gemini API key is not configured")
	// ErrEmptyResponse is returned when the model produced no candidate text
	ErrEmptyResponse = errors.New("gemini returned no content")
	// ErrSchemaViolation is returned when the model output misses a required field
	ErrSchemaViolation = errors.New("gemini response does not match the insight schema")
)

// Config configures the Gemini backend
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client requests structured insights from the Gemini API
type Client struct {
	cfg Config

	once   sync.Once
	sdk    *genai.Client
	sdkErr error
}

// NewClient builds a client, filling unset fields with defaults.
// The SDK client is created on first use so a missing key surfaces as ErrNoAPIKey.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = constants.DefaultGeminiBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = constants.DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultRequestTimeout
	}
	return &Client{cfg: cfg}
}

// Model returns the model name requests are sent to
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		c.sdk, c.sdkErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     strings.TrimSpace(c.cfg.APIKey),
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: c.cfg.HTTPClient,
			HTTPOptions: genai.HTTPOptions{
				BaseURL: strings.TrimRight(c.cfg.BaseURL, "/") + "/",
			},
		})
		if c.sdkErr != nil {
			c.sdkErr = fmt.Errorf("create gemini client: %w", c.sdkErr)
		}
	})
	return c.sdk, c.sdkErr
}

// insightSchema constrains the response to exactly {quote, author, fact}
func insightSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"quote":  {Type: genai.TypeString},
			"author": {Type: genai.TypeString},
			"fact":   {Type: genai.TypeString},
		},
		Required: []string{"quote", "author", "fact"},
	}
}

// Generate sends one generateContent request and decodes the structured reply.
// It makes a single attempt; callers decide what to do on failure.
func (c *Client) Generate(ctx context.Context, prompt string) (models.InsightRecord, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return models.InsightRecord{}, ErrNoAPIKey
	}
	sdk, err := c.client(ctx)
	if err != nil {
		return models.InsightRecord{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := sdk.Models.GenerateContent(ctx, c.cfg.Model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   insightSchema(),
		},
	)
	if err != nil {
		return models.InsightRecord{}, describe(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return models.InsightRecord{}, ErrEmptyResponse
	}
	return ParseInsight(text)
}

// describe flattens API errors into a status line with the body capped at
// MaxErrorBodyBytes; transport errors keep their chain for errors.Is
func describe(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Message)
		if len(msg) > constants.MaxErrorBodyBytes {
			msg = msg[:constants.MaxErrorBodyBytes]
		}
		return fmt.Errorf("generate request status %d: %s", apiErr.Code, msg)
	}
	return fmt.Errorf("generate request failed: %w", err)
}

// ParseInsight decodes model output text into an InsightRecord, rejecting
// unknown fields and empty required fields.
func ParseInsight(text string) (models.InsightRecord, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(text)))
	dec.DisallowUnknownFields()

	var record models.InsightRecord
	if err := dec.Decode(&record); err != nil {
		return models.InsightRecord{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if !record.IsComplete() {
		return models.InsightRecord{}, fmt.Errorf("%w: quote, author and fact are required", ErrSchemaViolation)
	}
	return record, nil
}
