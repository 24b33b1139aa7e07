package controller

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/helper"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/model"
)

func buildFeed(logs []*model.GenerationLog) *feeds.Feed {
	home := strings.TrimSuffix(config.ServerAddress, "/")
	feed := &feeds.Feed{
		Title:       config.SystemName,
		Description: "Recent image generations",
		Link:        &feeds.Link{Href: home},
		Updated:     time.Now(),
	}
	for _, log := range logs {
		status := "ok"
		if !log.Succeeded() {
			status = fmt.Sprintf("failed (%d)", log.StatusCode)
		}
		feed.Add(&feeds.Item{
			Id:    log.RequestId,
			Title: fmt.Sprintf("%s:%s", log.ModelName, helper.Truncate(log.Prompt, 80)),
			Link:  &feeds.Link{Href: fmt.Sprintf("%s/api/log?model=%s", home, log.ModelName)},
			Description: fmt.Sprintf("%dx%d, %d steps, guidance %.1f, %s in %.1fs",
				log.Width, log.Height, log.Steps, log.GuidanceScale, status, log.Duration),
			Created: time.Unix(log.CreatedAt, 0),
		})
	}
	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Created.After(b.Created)
	})
	return feed
}

func GetFeed(c *gin.Context) {
	logs, err := model.GetRecentGenerationLogs("", config.FeedItems)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load generation logs: "+err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	rss, err := buildFeed(logs).ToRss()
	if err != nil {
		logger.Error(c.Request.Context(), "failed to render feed: "+err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
