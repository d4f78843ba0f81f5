package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{URL: server.URL, Token: "secret"})
}

func TestClient_Success(t *testing.T) {
	var gotAuth, gotID string
	var gotPayload Payload

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(RequestIDHeader)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"questions":[{"question_text":"Q?","options":[]}],"metadata":{"tokensUsed":42,"generationTimeMs":1234}}`))
	})

	ctx := llm.WithRequestID(context.Background(), "call-1")
	env, err := c.Complete(ctx, Payload{Content: "text", NumberOfQuestions: 5, UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "call-1", gotID)
	assert.Equal(t, Payload{Content: "text", NumberOfQuestions: 5, UserID: "u1"}, gotPayload)

	assert.True(t, env.Success)
	assert.Equal(t, 42, env.Metadata.TokensUsed)
	require.NotNil(t, env.Metadata.GenerationTimeMs)
	assert.Equal(t, int64(1234), *env.Metadata.GenerationTimeMs)
	assert.JSONEq(t, `[{"question_text":"Q?","options":[]}]`, string(env.Questions))
}

func TestClient_MissingTimingIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"questions":[],"metadata":{"tokensUsed":1}}`))
	})

	env, err := c.Complete(context.Background(), Payload{})
	require.NoError(t, err)
	assert.Nil(t, env.Metadata.GenerationTimeMs)
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"envelope error", `{"success":false,"error":"quota exhausted"}`, "quota exhausted"},
		{"plain body", "upstream timeout\n", "upstream timeout"},
		{"empty body", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), Payload{})
			var se *StatusError
			require.True(t, errors.As(err, &se), "expected *StatusError, got %T", err)
			assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
			assert.Equal(t, tt.wantMsg, se.Message)
		})
	}
}

func TestClient_RemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"model refused"}`))
	})

	_, err := c.Complete(context.Background(), Payload{})
	var re *RemoteError
	require.True(t, errors.As(err, &re), "expected *RemoteError, got %T", err)
	assert.Equal(t, "model refused", re.Message)
	assert.Equal(t, "generation failed: model refused", err.Error())
}

func TestClient_InvalidEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "<html>oops</html>"},
		{"missing success", `{"questions":[]}`},
		{"success not bool", `{"success":"yes"}`},
		{"questions not array", `{"success":true,"questions":{"a":1}}`},
		{"negative tokens", `{"success":true,"questions":[],"metadata":{"tokensUsed":-1}}`},
		{"top level array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), Payload{})
			var ie *ErrInvalidEnvelope
			require.True(t, errors.As(err, &ie), "expected *ErrInvalidEnvelope, got %T: %v", err, err)
			assert.Equal(t, tt.body, string(ie.Body))
		})
	}
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{"success":true,"questions":[]}`))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{URL: server.URL})
	_, err := c.Complete(context.Background(), Payload{})
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(ClientConfig{URL: url})
	_, err := c.Complete(context.Background(), Payload{})
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}
