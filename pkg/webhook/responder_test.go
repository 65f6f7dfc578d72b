package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdf-insight-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskSendsJSONAndParsesAnswer(t *testing.T) {
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"output":{"answer":"The report covers Q3.","relevanceScore":0.87}}]`))
	}))
	defer srv.Close()

	c := NewChatResponder(srv.URL)
	reply, err := c.Ask(context.Background(), "what is this?", "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, "what is this?", gotBody["message"])
	assert.Equal(t, "user@example.com", gotBody["userEmail"])

	assert.True(t, reply.Parsed)
	assert.Equal(t, "The report covers Q3.", reply.Answer)
	require.NotNil(t, reply.RelevanceScore)
	assert.Equal(t, 0.87, *reply.RelevanceScore)
}

func TestAskMissingRelevanceScoreIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"output":{"answer":"yes"}}]`))
	}))
	defer srv.Close()

	c := NewChatResponder(srv.URL)
	reply, err := c.Ask(context.Background(), "q", "user@example.com")
	require.NoError(t, err)
	assert.True(t, reply.Parsed)
	assert.Nil(t, reply.RelevanceScore)
}

func TestAskMalformedBodyIsUnparsedNotError(t *testing.T) {
	cases := []string{
		`not json at all`,
		`[]`,
		`[{"output":{}}]`,
		`{"output":{"answer":"wrong shape"}}`,
	}

	for _, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		c := NewChatResponder(srv.URL)
		reply, err := c.Ask(context.Background(), "q", "user@example.com")
		srv.Close()

		require.NoError(t, err, "body %q", body)
		assert.False(t, reply.Parsed, "body %q", body)
	}
}

func TestAskUpstreamErrorIsChatRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"workflow is offline"}`))
	}))
	defer srv.Close()

	c := NewChatResponder(srv.URL)
	_, err := c.Ask(context.Background(), "q", "user@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsChatRequest(err))
	assert.Contains(t, err.Error(), "workflow is offline")
}

func TestAskStatusFallbackNamesChatService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`no json here`))
	}))
	defer srv.Close()

	c := NewChatResponder(srv.URL)
	_, err := c.Ask(context.Background(), "q", "user@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat service returned status 503")
}

func TestAskUnreachableService(t *testing.T) {
	c := NewChatResponder("http://127.0.0.1:1")
	_, err := c.Ask(context.Background(), "q", "user@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsChatRequest(err))
}
