package deid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeidentify_Success(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"item": map[string]string{"value": "[PERSON_NAME] seen on [DATE]"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	out, err := client.Deidentify(context.Background(), "John Smith seen on 2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, "[PERSON_NAME] seen on [DATE]", out)

	// Request carries the text and the full info-type list.
	item := captured["item"].(map[string]interface{})
	assert.Equal(t, "John Smith seen on 2026-01-05", item["value"])

	inspect := captured["inspectConfig"].(map[string]interface{})
	infoTypes := inspect["infoTypes"].([]interface{})
	assert.Len(t, infoTypes, len(DefaultInfoTypes))
}

func TestDeidentify_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"item": map[string]string{"value": "ok"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Deidentify(context.Background(), "text")
	assert.NoError(t, err)
}

func TestDeidentify_NotConfigured(t *testing.T) {
	client := NewClient("", "")
	_, err := client.Deidentify(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDeidentify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k")
	_, err := client.Deidentify(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDeidentify_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k")
	_, err := client.Deidentify(context.Background(), "text")
	assert.Error(t, err)
}

func TestDeidentify_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"item": map[string]string{"value": "ok"}})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "k")
	_, err := client.Deidentify(ctx, "text")
	assert.Error(t, err)
}
