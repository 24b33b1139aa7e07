package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/songquanpeng/image-studio/relay/channel/huggingface"
	"github.com/songquanpeng/image-studio/relay/helper"
	"github.com/songquanpeng/image-studio/studio"
)

type ModelInfo struct {
	Id            string  `json:"id"`
	Label         string  `json:"label"`
	Repository    string  `json:"repository"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Steps         int     `json:"steps"`
	GuidanceScale float64 `json:"guidance_scale"`
}

func ListModels(c *gin.Context) {
	models := lo.Map(helper.ModelList(), func(name string, _ int) ModelInfo {
		defaults, _ := studio.DefaultsFor(name)
		return ModelInfo{
			Id:            name,
			Label:         defaults.Label,
			Repository:    huggingface.ModelRepositories[name],
			Width:         defaults.Width,
			Height:        defaults.Height,
			Steps:         defaults.Steps,
			GuidanceScale: defaults.GuidanceScale,
		}
	})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    models,
	})
}
