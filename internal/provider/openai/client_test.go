package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("sk-test", WithBaseURL(srv.URL+"/"))
}

const completionResponse = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "{\"ok\":true}"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 21, "completion_tokens": 7, "total_tokens": 28}
}`

func TestExecute(t *testing.T) {
	var body []byte
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse)
	})

	c, err := adapter.Execute(context.Background(), &gengate.Request{
		Model:       model.GPT4oMini,
		System:      "Reply in JSON.",
		User:        "status?",
		Temperature: 0.5,
		Format:      gengate.FormatJSON,
		CacheBlocks: []string{"context block"},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, c.Text)
	assert.Equal(t, gengate.Usage{InputTokens: 21, OutputTokens: 7}, c.Usage)

	req := gjson.ParseBytes(body)
	assert.Equal(t, "gpt-4o-mini", req.Get("model").String())
	assert.Equal(t, "json_object", req.Get("response_format.type").String())
	assert.Equal(t, 0.5, req.Get("temperature").Float())
	assert.Equal(t, int64(defaultMaxTokens), req.Get("max_completion_tokens").Int())

	messages := req.Get("messages").Array()
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Get("role").String())
	assert.Equal(t, "Reply in JSON.\n\ncontext block", messages[0].Get("content").String())
	assert.Equal(t, "user", messages[1].Get("role").String())
	assert.Equal(t, "status?", messages[1].Get("content").String())
}

func TestExecuteTextFormatOmitsResponseFormat(t *testing.T) {
	var body []byte
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, completionResponse)
	})

	_, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.GPT5Mini, User: "hi", Temperature: 0.9})
	require.NoError(t, err)

	req := gjson.ParseBytes(body)
	assert.False(t, req.Get("response_format").Exists())
	assert.False(t, req.Get("temperature").Exists(), "gpt-5 models only accept the default temperature")
	assert.Len(t, req.Get("messages").Array(), 1)
}

func TestExecuteMissingUsage(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"chatcmpl-2","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`)
	})

	c, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.GPT4o, User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", c.Text)
	assert.Equal(t, gengate.Usage{}, c.Usage)
}

func TestExecuteMissingKey(t *testing.T) {
	adapter := New("")
	_, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.GPT4o, User: "hi"})
	assert.True(t, gengate.IsConfiguration(err))
	assert.Contains(t, err.Error(), APIKeyEnv)
}

func TestExecuteErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected gengate.ErrorCategory
	}{
		{"invalid key", 401, `{"error":{"message":"Incorrect API key","type":"invalid_request_error","code":"invalid_api_key"}}`, gengate.ErrorNonRetryable},
		{"quota", 429, `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`, gengate.ErrorNonRetryable},
		{"rate limit", 429, `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`, gengate.ErrorNonRetryable},
		{"server error", 500, `{"error":{"message":"The server had an error","type":"server_error","code":null}}`, gengate.ErrorTransient},
		{"bad gateway", 502, `{"error":{"message":"bad gateway"}}`, gengate.ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := adapter.Execute(context.Background(), &gengate.Request{Model: model.GPT4o, User: "hi"})
			require.Error(t, err)

			cat, ok := gengate.CategoryOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.expected, cat)
			assert.Equal(t, int32(1), calls.Load(), "SDK retries must be disabled")
		})
	}
}

func TestCategorizeUnknownStatus(t *testing.T) {
	assert.Equal(t, gengate.ErrorCategory(""), categorize("", "invalid_request_error", 400))
}

func streamHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	if !gjson.GetBytes(body, "stream_options.include_usage").Bool() {
		http.Error(w, "include_usage not requested", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	flush := func() {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
	for _, chunk := range []string{"Hel", "lo", " there"} {
		fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-4o\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
		flush()
	}
	fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-4o\",\"choices\":[],\"usage\":{\"prompt_tokens\":9,\"completion_tokens\":3,\"total_tokens\":12}}\n\n")
	fmt.Fprint(w, "data: [DONE]\n\n")
	flush()
}

func TestStream(t *testing.T) {
	adapter := newTestAdapter(t, streamHandler)

	var text string
	var usage gengate.Usage
	for delta, err := range adapter.Stream(context.Background(), &gengate.Request{Model: model.GPT4o, User: "greet"}) {
		require.NoError(t, err)
		text += delta.Text
		usage.Merge(delta.Usage)
	}

	assert.Equal(t, "Hello there", text)
	assert.Equal(t, gengate.Usage{InputTokens: 9, OutputTokens: 3}, usage)
}

func TestStreamEarlyStop(t *testing.T) {
	adapter := newTestAdapter(t, streamHandler)

	var seen []string
	for delta, err := range adapter.Stream(context.Background(), &gengate.Request{Model: model.GPT4o, User: "greet"}) {
		require.NoError(t, err)
		seen = append(seen, delta.Text)
		break
	}
	assert.Equal(t, []string{"Hel"}, seen)
}

func TestStreamError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(503)
		fmt.Fprint(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	})

	var errs []error
	for _, err := range adapter.Stream(context.Background(), &gengate.Request{Model: model.GPT4o, User: "hi"}) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require.Len(t, errs, 1)
	assert.True(t, gengate.IsTransient(errs[0]))
}

func TestWireModel(t *testing.T) {
	assert.Equal(t, "gpt-5-mini", WireModel(model.GPT5Mini, nil))
	assert.Equal(t, DefaultWireModel, WireModel(model.Gemini25Flash, nil))
}
