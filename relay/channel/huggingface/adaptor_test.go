package huggingface

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/relay/model"
	"github.com/songquanpeng/image-studio/relay/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestURL(t *testing.T) {
	a := &Adaptor{}
	url, err := a.GetRequestURL(&util.RelayMeta{BaseURL: "https://hf.example/", ModelName: ModelSDXL})
	require.NoError(t, err)
	assert.Equal(t, "https://hf.example/models/stabilityai/stable-diffusion-xl-base-1.0", url)

	_, err = a.GetRequestURL(&util.RelayMeta{BaseURL: "https://hf.example", ModelName: "dalle"})
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestConvertImageRequest(t *testing.T) {
	a := &Adaptor{}
	converted, err := a.ConvertImageRequest(&model.GenerationRequest{
		Model:          ModelFlux,
		Prompt:         "a fox",
		NegativePrompt: "  ",
		Width:          768,
		Height:         1024,
		Steps:          20,
		GuidanceScale:  3.5,
	})
	require.NoError(t, err)
	assert.Equal(t, &InferenceRequest{
		Inputs: "a fox",
		Parameters: Parameters{
			NegativePrompt:    DefaultNegativePrompt,
			Width:             768,
			Height:            1024,
			NumInferenceSteps: 20,
			GuidanceScale:     3.5,
		},
	}, converted)

	_, err = a.ConvertImageRequest(nil)
	assert.Error(t, err)
}

func TestSetupRequestHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/generate", nil)
	req := httptest.NewRequest("POST", "https://hf.example/models/x", nil)

	require.NoError(t, (&Adaptor{}).SetupRequestHeader(c, req, &util.RelayMeta{APIKey: "hf_abc", RequestId: "rid"}))
	assert.Equal(t, "Bearer hf_abc", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "image/png", req.Header.Get("Accept"))
	assert.Equal(t, "rid", req.Header.Get("X-Request-Id"))
}
