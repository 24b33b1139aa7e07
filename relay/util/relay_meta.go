package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
)

type RelayMeta struct {
	RequestId string
	// BaseURL is the inference API root, overridable through HF_BASE_URL
	BaseURL   string
	APIKey    string
	ModelName string
	// UpstreamURL is resolved by the adaptor from ModelName
	UpstreamURL    string
	RequestURLPath string
	StartTime      time.Time
}

func GetRelayMeta(c *gin.Context) *RelayMeta {
	return &RelayMeta{
		RequestId:      c.GetString(logger.RequestIdKey),
		BaseURL:        config.HuggingFaceBaseURL,
		RequestURLPath: c.Request.URL.String(),
		StartTime:      time.Now(),
	}
}
