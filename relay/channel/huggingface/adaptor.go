package huggingface

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/songquanpeng/image-studio/relay/channel"
	"github.com/songquanpeng/image-studio/relay/model"
	"github.com/songquanpeng/image-studio/relay/util"
)

var ErrUnknownModel = errors.New("unknown model")

type Adaptor struct {
}

func (a *Adaptor) Init(meta *util.RelayMeta) {
}

func (a *Adaptor) GetRequestURL(meta *util.RelayMeta) (string, error) {
	repository, ok := ModelRepositories[meta.ModelName]
	if !ok {
		return "", errors.Wrapf(ErrUnknownModel, "model %q", meta.ModelName)
	}
	return fmt.Sprintf("%s/models/%s", strings.TrimSuffix(meta.BaseURL, "/"), repository), nil
}

func (a *Adaptor) SetupRequestHeader(c *gin.Context, req *http.Request, meta *util.RelayMeta) error {
	channel.SetupCommonRequestHeader(c, req, meta)
	req.Header.Set("Authorization", "Bearer "+meta.APIKey)
	return nil
}

func (a *Adaptor) ConvertImageRequest(request *model.GenerationRequest) (any, error) {
	if request == nil {
		return nil, errors.New("request is nil")
	}
	negativePrompt := request.NegativePrompt
	if strings.TrimSpace(negativePrompt) == "" {
		negativePrompt = DefaultNegativePrompt
	}
	return &InferenceRequest{
		Inputs: request.Prompt,
		Parameters: Parameters{
			NegativePrompt:    negativePrompt,
			Width:             request.Width,
			Height:            request.Height,
			NumInferenceSteps: request.Steps,
			GuidanceScale:     request.GuidanceScale,
		},
	}, nil
}

func (a *Adaptor) DoRequest(c *gin.Context, meta *util.RelayMeta, requestBody io.Reader) (*http.Response, error) {
	return channel.DoRequestHelper(a, c, meta, requestBody)
}

func (a *Adaptor) DoResponse(c *gin.Context, resp *http.Response, meta *util.RelayMeta) (*model.ImageResult, *model.ErrorWithStatusCode) {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, ErrorHandler(c, resp)
	}
	return ImageHandler(c, resp)
}

func (a *Adaptor) GetModelList() []string {
	return ModelList
}

func (a *Adaptor) GetChannelName() string {
	return "huggingface"
}
