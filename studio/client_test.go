package studio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/songquanpeng/image-studio/common/logger"
	relaymodel "github.com/songquanpeng/image-studio/relay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func TestProxyClientSuccess(t *testing.T) {
	var received relaymodel.GenerationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get(logger.RequestIdKey))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	}))
	defer server.Close()

	form := NewForm()
	form.Prompt = "a teapot"
	request, err := form.Request()
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), logger.RequestIdKey, "req-1")
	result, err := NewProxyClient(server.URL, server.Client()).Generate(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, result.Data)
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, "a teapot", received.Prompt)
	assert.Equal(t, "flux", received.Model)
	assert.Equal(t, 20, received.Steps)
}

func TestProxyClientErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Hugging Face API error: 503","details":"loading"}`))
	}))
	defer server.Close()

	_, err := NewProxyClient(server.URL, nil).Generate(context.Background(), &relaymodel.GenerationRequest{})
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, http.StatusServiceUnavailable, genErr.StatusCode)
	assert.Equal(t, "Hugging Face API error: 503", genErr.Message)
}

func TestProxyClientErrorFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	_, err := NewProxyClient(server.URL, nil).Generate(context.Background(), &relaymodel.GenerationRequest{})
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, http.StatusBadGateway, genErr.StatusCode)
	assert.Equal(t, FallbackErrorMessage, genErr.Message)
}

func TestFormRequestCopiesFields(t *testing.T) {
	form := Form{
		Model:          "sdxl",
		Prompt:         "p",
		NegativePrompt: "n",
		Width:          512,
		Height:         640,
		Steps:          12,
		GuidanceScale:  6.5,
	}
	request, err := form.Request()
	require.NoError(t, err)
	assert.Equal(t, &relaymodel.GenerationRequest{
		Model:          "sdxl",
		Prompt:         "p",
		NegativePrompt: "n",
		Width:          512,
		Height:         640,
		Steps:          12,
		GuidanceScale:  6.5,
	}, request)
}
