package huggingface

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/helper"
	"github.com/songquanpeng/image-studio/common/image"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/common/message"
	"github.com/songquanpeng/image-studio/relay/model"
)

// maxErrorBodyBytes bounds how much of an upstream error body is echoed back.
const maxErrorBodyBytes = 64 << 10

var internalError = &model.ErrorWithStatusCode{
	StatusCode: http.StatusInternalServerError,
	Error:      model.Error{Message: "Internal server error", Code: "internal_error"},
}

// ErrorHandler passes the upstream status through with its body as details.
func ErrorHandler(c *gin.Context, resp *http.Response) *model.ErrorWithStatusCode {
	defer resp.Body.Close()
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		logger.Errorf(ctx, "read upstream error body failed: status %d, %s", resp.StatusCode, err.Error())
	}
	logger.Errorf(ctx, "Hugging Face API error: status %d, body: %s", resp.StatusCode, string(body))
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		content := fmt.Sprintf("The inference API answered %d, check %s.\n\n%s", resp.StatusCode, config.HFTokenEnv, helper.Truncate(string(body), 500))
		common.RelayCtxGo(ctx, func() {
			message.Alert("hf_token_rejected", config.HFTokenEnv+" rejected", content)
		})
	}

	return &model.ErrorWithStatusCode{
		StatusCode: resp.StatusCode,
		Error: model.Error{
			Message: fmt.Sprintf("Hugging Face API error: %d", resp.StatusCode),
			Details: string(body),
			Code:    "upstream_error",
		},
	}
}

// ImageHandler buffers the image so Content-Length is exact, then relays it.
func ImageHandler(c *gin.Context, resp *http.Response) (*model.ImageResult, *model.ErrorWithStatusCode) {
	defer resp.Body.Close()
	ctx := c.Request.Context()

	limit := int64(config.MaxImageBytes)
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		logger.Errorf(ctx, "read upstream image failed: %s", err.Error())
		return nil, internalError
	}
	if int64(len(data)) > limit {
		logger.Errorf(ctx, "upstream image exceeds %d bytes", limit)
		return nil, internalError
	}

	contentType := image.DetectContentType(data, resp.Header.Get("Content-Type"))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, contentType, data)

	return &model.ImageResult{
		ContentType: contentType,
		Size:        len(data),
		StatusCode:  http.StatusOK,
	}, nil
}
