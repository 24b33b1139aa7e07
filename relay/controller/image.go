package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
	dbmodel "github.com/songquanpeng/image-studio/model"
	"github.com/songquanpeng/image-studio/relay/helper"
	"github.com/songquanpeng/image-studio/relay/model"
	"github.com/songquanpeng/image-studio/relay/util"
)

func getGenerationRequest(c *gin.Context) (*model.GenerationRequest, *model.ErrorWithStatusCode) {
	request := &model.GenerationRequest{}
	err := common.UnmarshalBodyReusable(c, request)
	report, ok := model.Validate(request, err)
	if !ok {
		logger.Warnf(c.Request.Context(), "invalid request body: %s", err.Error())
		return nil, ErrorWrapper(http.StatusBadRequest, "invalid_request_body", "Invalid request body")
	}
	if !report.Empty() {
		return nil, ErrorWrapper(http.StatusBadRequest, "invalid_fields", report.Message())
	}
	return request, nil
}

// RelayImageHelper validates a generation request, forwards it to the
// inference API and writes the image (or nothing, on error) to c.
func RelayImageHelper(c *gin.Context) *model.ErrorWithStatusCode {
	ctx := c.Request.Context()
	meta := util.GetRelayMeta(c)

	request, bizErr := getGenerationRequest(c)
	if bizErr != nil {
		return bizErr
	}
	meta.ModelName = request.Model

	adaptor := helper.GetAdaptor(request.Model)
	if adaptor == nil {
		return ErrorWrapper(http.StatusBadRequest, "invalid_model", "Invalid model specified")
	}

	meta.APIKey = config.HFToken()
	if meta.APIKey == "" {
		logger.Error(ctx, config.HFTokenEnv+" is not set")
		return ErrorWrapper(http.StatusInternalServerError, "missing_credential", config.HFTokenEnv+" not configured")
	}
	adaptor.Init(meta)

	upstreamURL, err := adaptor.GetRequestURL(meta)
	if err != nil {
		return InternalError(ctx, "get_request_url_failed", err)
	}
	meta.UpstreamURL = upstreamURL

	convertedRequest, err := adaptor.ConvertImageRequest(request)
	if err != nil {
		return InternalError(ctx, "convert_request_failed", err)
	}
	jsonStr, err := json.Marshal(convertedRequest)
	if err != nil {
		return InternalError(ctx, "marshal_request_failed", err)
	}
	logger.Infof(ctx, "relay %s to %s (%dx%d, %d steps)", meta.ModelName, meta.UpstreamURL, request.Width, request.Height, request.Steps)

	resp, err := adaptor.DoRequest(c, meta, bytes.NewBuffer(jsonStr))
	if err != nil {
		return InternalError(ctx, "do_request_failed", err)
	}

	result, respErr := adaptor.DoResponse(c, resp, meta)
	recordGeneration(c, meta, request, resp.StatusCode, result)
	return respErr
}

func recordGeneration(c *gin.Context, meta *util.RelayMeta, request *model.GenerationRequest, statusCode int, result *model.ImageResult) {
	if !config.GenerationLogEnabled || dbmodel.LOG_DB == nil {
		return
	}
	entry := &dbmodel.GenerationLog{
		RequestId:     meta.RequestId,
		ModelName:     meta.ModelName,
		Prompt:        request.Prompt,
		Width:         request.Width,
		Height:        request.Height,
		Steps:         request.Steps,
		GuidanceScale: request.GuidanceScale,
		StatusCode:    statusCode,
		Duration:      time.Since(meta.StartTime).Seconds(),
	}
	if result != nil {
		entry.ContentType = result.ContentType
		entry.Bytes = result.Size
	}
	ctx := c.Request.Context()
	common.RelayCtxGo(ctx, func() {
		dbmodel.RecordGenerationLog(ctx, entry)
	})
}
