package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateBody(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return string(body)
}

type capturedSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]capturedSchema `json:"properties"`
	Required   []string                  `json:"required"`
}

type capturedRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string         `json:"responseMimeType"`
		ResponseSchema   capturedSchema `json:"responseSchema"`
	} `json:"generationConfig"`
}

func TestGenerateSendsStructuredRequest(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidateBody(`{"quote":"春風","author":"詩人","fact":"四月"}`)))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret-key", Model: "gemini-test", BaseURL: server.URL})
	record, err := client.Generate(context.Background(), "還有 187 天")
	require.NoError(t, err)

	assert.Equal(t, "春風", record.Quote)
	assert.Equal(t, "詩人", record.Author)
	assert.Equal(t, "四月", record.Fact)

	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Equal(t, "還有 187 天", captured.Contents[0].Parts[0].Text)

	schema := captured.GenerationConfig.ResponseSchema
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	assert.Equal(t, "OBJECT", schema.Type)
	assert.ElementsMatch(t, []string{"quote", "author", "fact"}, schema.Required)
	for _, field := range []string{"quote", "author", "fact"} {
		assert.Equal(t, "STRING", schema.Properties[field].Type)
	}
}

func TestGenerateReusesClientAcrossCalls(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(candidateBody(`{"quote":"a","author":"b","fact":"c"}`)))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL + "/"})
	for i := 0; i < 2; i++ {
		_, err := client.Generate(context.Background(), "p")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load(), "each Generate is exactly one request")
}

func TestGenerateJoinsPartsAndTrims(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": "  {\"quote\":\"a\","},
					map[string]any{"text": "\"author\":\"b\",\"fact\":\"c\"}\n"},
				}},
			}},
		})
		_, _ = w.Write(body)
	}))
	defer server.Close()

	record, err := NewClient(Config{APIKey: "k", BaseURL: server.URL}).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "a", record.Quote)
	assert.Equal(t, "c", record.Fact)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantMsg: "status 500: boom"},
		{name: "quota exceeded", status: http.StatusTooManyRequests, body: `{"error":"quota"}`, wantMsg: "status 429"},
		{name: "malformed envelope", status: http.StatusOK, body: "not json", wantMsg: "generate request failed"},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrEmptyResponse},
		{name: "model text is not json", status: http.StatusOK, body: candidateBody("sorry, I can't"), wantErr: ErrSchemaViolation},
		{name: "missing required field", status: http.StatusOK, body: candidateBody(`{"quote":"a","author":"b"}`), wantErr: ErrSchemaViolation},
		{name: "extra field", status: http.StatusOK, body: candidateBody(`{"quote":"a","author":"b","fact":"c","mood":"d"}`), wantErr: ErrSchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(Config{APIKey: "k", BaseURL: server.URL}).Generate(context.Background(), "p")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGenerateErrorBodyIsLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", 10000)))
	}))
	defer server.Close()

	_, err := NewClient(Config{APIKey: "k", BaseURL: server.URL}).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 4200)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Zero(t, calls)
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{})
	assert.Equal(t, "gemini-3-flash-preview", client.Model())
	assert.Equal(t, "https://generativelanguage.googleapis.com", client.cfg.BaseURL)
	assert.Equal(t, 30*time.Second, client.cfg.Timeout)
}
