package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/model"
	"github.com/songquanpeng/image-studio/monitor"
	"github.com/songquanpeng/image-studio/relay/helper"
)

func GetStatus(c *gin.Context) {
	logCount, err := model.CountGenerationLogs()
	if err != nil {
		logger.Error(c.Request.Context(), "failed to count generation logs: "+err.Error())
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version":              common.Version,
			"start_time":           common.StartTime,
			"system_name":          config.SystemName,
			"server_address":       config.ServerAddress,
			"models":               helper.ModelList(),
			"hf_token_configured":  config.HFToken() != "",
			"generation_log":       config.GenerationLogEnabled && model.LOG_DB != nil,
			"generation_log_count": logCount,
			"redis_enabled":        common.RedisEnabled,
		},
	})
}

func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"metrics": monitor.GetSnapshot(),
	})
}
