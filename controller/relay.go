package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
	relaycontroller "github.com/songquanpeng/image-studio/relay/controller"
)

func Relay(c *gin.Context) {
	ctx := c.Request.Context()
	if config.DebugEnabled {
		requestBody, _ := common.GetRequestBody(c)
		logger.Debugf(ctx, "request body: %s", string(requestBody))
	}

	bizErr := relaycontroller.RelayImageHelper(c)
	if bizErr == nil {
		return
	}
	logger.Errorf(ctx, "relay error (status %d, code %s): %s", bizErr.StatusCode, bizErr.Code, bizErr.String())
	c.JSON(bizErr.StatusCode, bizErr.Error)
}
