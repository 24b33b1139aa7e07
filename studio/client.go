package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/songquanpeng/image-studio/common/image"
	"github.com/songquanpeng/image-studio/common/logger"
	relaymodel "github.com/songquanpeng/image-studio/relay/model"
)

const (
	FallbackErrorMessage = "Failed to generate image"
	GenericErrorMessage  = "An error occurred"
)

// maxErrorBodyBytes bounds how much of an error response is read.
const maxErrorBodyBytes = 64 << 10

type Result struct {
	Data        []byte
	ContentType string
}

type Generator interface {
	Generate(ctx context.Context, request *relaymodel.GenerationRequest) (*Result, error)
}

// GenerationError is a non-success answer from the generation endpoint.
type GenerationError struct {
	StatusCode int
	Message    string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed with status %d: %s", e.StatusCode, e.Message)
}

// ProxyClient posts requests to the generation endpoint as JSON.
type ProxyClient struct {
	URL        string
	HTTPClient *http.Client
}

func NewProxyClient(url string, client *http.Client) *ProxyClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyClient{URL: url, HTTPClient: client}
}

func (p *ProxyClient) Generate(ctx context.Context, request *relaymodel.GenerationRequest) (*Result, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	if requestId := logger.RequestIdFromContext(ctx); requestId != "" {
		req.Header.Set(logger.RequestIdKey, requestId)
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "post generation request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, readGenerationError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	return &Result{
		Data:        data,
		ContentType: image.DetectContentType(data, resp.Header.Get("Content-Type")),
	}, nil
}

func readGenerationError(resp *http.Response) *GenerationError {
	genErr := &GenerationError{StatusCode: resp.StatusCode, Message: FallbackErrorMessage}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return genErr
	}
	var payload relaymodel.Error
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		genErr.Message = payload.Message
	}
	return genErr
}
