package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/keypool"
	"github.com/spetersoncode/gengate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const generateResponse = `{
	"candidates": [{
		"content": {"role": "model", "parts": [{"text": "{\"name\":"}, {"text": "\"Acme\"}"}]},
		"finishReason": "STOP"
	}],
	"usageMetadata": {"promptTokenCount": 30, "candidatesTokenCount": 8, "totalTokenCount": 38}
}`

// keyRecorder records the API key of every request.
type keyRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (k *keyRecorder) record(r *http.Request) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = append(k.keys, r.Header.Get("x-goog-api-key"))
}

func newTestAdapter(t *testing.T, pool *keypool.Pool, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(pool, WithBaseURL(srv.URL+"/"))
}

func TestExecute(t *testing.T) {
	var body []byte
	var path string
	adapter := newTestAdapter(t, keypool.New([]string{"key-a"}), func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, generateResponse)
	})

	c, err := adapter.Execute(context.Background(), &gengate.Request{
		Model:       model.Gemini25Flash,
		System:      "You name companies.",
		User:        "Name one.",
		Format:      gengate.FormatJSON,
		CacheBlocks: []string{"industry: widgets"},
		MaxTokens:   128,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"name":"Acme"}`, c.Text)
	assert.Equal(t, gengate.Usage{InputTokens: 30, OutputTokens: 8}, c.Usage)

	assert.True(t, strings.HasSuffix(path, "/models/gemini-2.5-flash:generateContent"), path)
	req := gjson.ParseBytes(body)
	assert.Equal(t, "You name companies.\n\nindustry: widgets\n\nName one.", req.Get("contents.0.parts.0.text").String())
	assert.Equal(t, "user", req.Get("contents.0.role").String())
	assert.Len(t, req.Get("contents").Array(), 1)
	assert.False(t, req.Get("systemInstruction").Exists())
	assert.Equal(t, "application/json", req.Get("generationConfig.responseMimeType").String())
	assert.Equal(t, int64(128), req.Get("generationConfig.maxOutputTokens").Int())
}

func TestExecuteRotatesKeys(t *testing.T) {
	rec := &keyRecorder{}
	pool := keypool.New([]string{"key-a", "key-b", "key-c"}, keypool.WithProvider(model.FamilyGoogle))
	adapter := newTestAdapter(t, pool, func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		fmt.Fprint(w, generateResponse)
	})

	for range 4 {
		_, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.Gemini25FlashLite, User: "hi"})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"key-a", "key-b", "key-c", "key-a"}, rec.keys)
	assert.Len(t, adapter.clients, 3, "one client per credential")

	stats := pool.Stats()
	assert.Equal(t, int64(2), stats.Credentials[0].Uses)
	assert.Equal(t, int64(1), stats.Credentials[2].Uses)
}

func TestExecuteMissingUsage(t *testing.T) {
	adapter := newTestAdapter(t, keypool.New([]string{"k"}), func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"hi"}]}}]}`)
	})

	c, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.Gemini20FlashFree, User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", c.Text)
	assert.Equal(t, gengate.Usage{}, c.Usage)
}

func TestExecuteThinkingTokens(t *testing.T) {
	adapter := newTestAdapter(t, keypool.New([]string{"k"}), func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "pondered", "thought": true}, {"text": "42"}]}}],
			"usageMetadata": {"promptTokenCount": 30, "candidatesTokenCount": 8, "thoughtsTokenCount": 500, "totalTokenCount": 538}
		}`)
	})

	c, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.Gemini25Pro, User: "answer?"})
	require.NoError(t, err)

	assert.Equal(t, "42", c.Text)
	assert.Equal(t, gengate.Usage{InputTokens: 30, OutputTokens: 508}, c.Usage)
	assert.Equal(t, 538, c.Usage.Total())
}

func TestUsageFrom(t *testing.T) {
	tests := []struct {
		name     string
		md       *genai.GenerateContentResponseUsageMetadata
		expected gengate.Usage
	}{
		{"nil", nil, gengate.Usage{}},
		{"no thinking", &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 12, CandidatesTokenCount: 5}, gengate.Usage{InputTokens: 12, OutputTokens: 5}},
		{"thinking only so far", &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 12, ThoughtsTokenCount: 40}, gengate.Usage{InputTokens: 12, OutputTokens: 40}},
		{"thinking and answer", &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 12, CandidatesTokenCount: 5, ThoughtsTokenCount: 40}, gengate.Usage{InputTokens: 12, OutputTokens: 45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, usageFrom(tt.md))
		})
	}
}

func TestExecuteEmptyPool(t *testing.T) {
	for _, pool := range []*keypool.Pool{nil, keypool.New(nil)} {
		adapter := New(pool)
		_, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.Gemini25Flash, User: "hi"})

		var cfgErr *gengate.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, model.FamilyGoogle, cfgErr.Provider)
	}
}

func TestExecuteErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected gengate.ErrorCategory
	}{
		{"quota", 429, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`, gengate.ErrorNonRetryable},
		{"invalid key", 400, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT","details":[{"@type":"type.googleapis.com/google.rpc.ErrorInfo","reason":"API_KEY_INVALID"}]}}`, gengate.ErrorNonRetryable},
		{"unavailable", 503, `{"error":{"code":503,"message":"The model is overloaded","status":"UNAVAILABLE"}}`, gengate.ErrorTransient},
		{"internal", 500, `{"error":{"code":500,"message":"Internal error","status":"INTERNAL"}}`, gengate.ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestAdapter(t, keypool.New([]string{"k"}), func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.Gemini25Pro, User: "hi"})
			require.Error(t, err)

			cat, ok := gengate.CategoryOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.expected, cat)
			assert.Equal(t, tt.status, gengate.StatusCodeOf(err))
		})
	}
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, gengate.ErrorNonRetryable, categorize(genai.APIError{Status: "PERMISSION_DENIED"}, 403))
	assert.Equal(t, gengate.ErrorTransient, categorize(genai.APIError{}, 502))
	assert.Equal(t, gengate.ErrorCategory(""), categorize(genai.APIError{Status: "INVALID_ARGUMENT"}, 400))
}

func streamHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	chunks := []string{
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"Bright"}]}}],"usageMetadata":{"promptTokenCount":12}}`,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":" ideas"}]}}],"usageMetadata":{"promptTokenCount":12}}`,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":" daily"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":5,"totalTokenCount":17}}`,
	}
	for _, c := range chunks {
		fmt.Fprintf(w, "data: %s\n\n", c)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func TestStream(t *testing.T) {
	var path string
	adapter := newTestAdapter(t, keypool.New([]string{"k"}), func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		streamHandler(w, r)
	})

	var text string
	var usage gengate.Usage
	for delta, err := range adapter.Stream(context.Background(), &gengate.Request{Model: model.Gemini25Flash, User: "slogan"}) {
		require.NoError(t, err)
		text += delta.Text
		usage.Merge(delta.Usage)
	}

	assert.True(t, strings.HasSuffix(path, ":streamGenerateContent"), path)
	assert.Equal(t, "Bright ideas daily", text)
	assert.Equal(t, gengate.Usage{InputTokens: 12, OutputTokens: 5}, usage)
}

func TestStreamEarlyStop(t *testing.T) {
	adapter := newTestAdapter(t, keypool.New([]string{"k"}), streamHandler)

	n := 0
	for _, err := range adapter.Stream(context.Background(), &gengate.Request{Model: model.Gemini25Flash, User: "slogan"}) {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestStreamError(t *testing.T) {
	adapter := newTestAdapter(t, keypool.New([]string{"k"}), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(429)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`)
	})

	var errs []error
	for _, err := range adapter.Stream(context.Background(), &gengate.Request{Model: model.Gemini25Flash, User: "hi"}) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require.Len(t, errs, 1)
	assert.True(t, gengate.IsNonRetryable(errs[0]))
}

func TestWireModel(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash-exp", WireModel(model.Gemini20FlashFree, nil))
	assert.Equal(t, DefaultWireModel, WireModel(model.ClaudeHaiku45, nil))
}
