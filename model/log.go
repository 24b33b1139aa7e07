package model

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/helper"
	"github.com/songquanpeng/image-studio/common/logger"
)

// GenerationLog records one relayed generation. Image bytes are never stored.
type GenerationLog struct {
	Id            int     `json:"id"`
	RequestId     string  `json:"request_id" gorm:"index"`
	CreatedAt     int64   `json:"created_at" gorm:"bigint;index"`
	ModelName     string  `json:"model_name" gorm:"index;default:''"`
	Prompt        string  `json:"prompt" gorm:"type:text"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Steps         int     `json:"steps"`
	GuidanceScale float64 `json:"guidance_scale"`
	StatusCode    int     `json:"status_code" gorm:"index"`
	ContentType   string  `json:"content_type" gorm:"default:''"`
	Bytes         int     `json:"bytes" gorm:"default:0"`
	Duration      float64 `json:"duration" gorm:"default:0"`
}

func (l *GenerationLog) Succeeded() bool {
	return l.StatusCode >= 200 && l.StatusCode < 300
}

func RecordGenerationLog(ctx context.Context, log *GenerationLog) {
	if !config.GenerationLogEnabled || LOG_DB == nil {
		return
	}
	if log.CreatedAt == 0 {
		log.CreatedAt = helper.GetTimestamp()
	}
	err := LOG_DB.Create(log).Error
	if err != nil {
		logger.Error(ctx, "failed to record generation log: "+err.Error())
	}
}

// GetRecentGenerationLogs returns the newest logs first, optionally filtered
// by model name.
func GetRecentGenerationLogs(modelName string, limit int) (logs []*GenerationLog, err error) {
	if LOG_DB == nil {
		return []*GenerationLog{}, nil
	}
	if limit <= 0 || limit > config.MaxRecentItems {
		limit = config.ItemsPerPage
	}
	tx := LOG_DB
	if modelName != "" {
		tx = tx.Where("model_name = ?", modelName)
	}
	err = tx.Order("id desc").Limit(limit).Find(&logs).Error
	return logs, err
}

func CountGenerationLogs() (total int64, err error) {
	if LOG_DB == nil {
		return 0, nil
	}
	err = LOG_DB.Model(&GenerationLog{}).Count(&total).Error
	return total, err
}

func DeleteOldGenerationLogs(targetTimestamp int64) (int64, error) {
	if LOG_DB == nil {
		return 0, nil
	}
	result := LOG_DB.Where("created_at < ?", targetTimestamp).Delete(&GenerationLog{})
	return result.RowsAffected, result.Error
}

// StartLogRetention deletes logs older than retentionDays once a day. The
// returned stop function waits for a running cleanup to finish.
func StartLogRetention(retentionDays int) (stop func(), err error) {
	if retentionDays <= 0 || LOG_DB == nil {
		return func() {}, nil
	}
	c := cron.New()
	_, err = c.AddFunc("@daily", func() {
		cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()
		deleted, err := DeleteOldGenerationLogs(cutoff)
		if err != nil {
			logger.SysError("failed to delete old generation logs: " + err.Error())
			return
		}
		logger.SysLog(fmt.Sprintf("deleted %d generation log(s) older than %d day(s)", deleted, retentionDays))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
