package message

import (
	"fmt"
	"sync"
	"time"

	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
)

var (
	alertLock sync.Mutex
	lastAlert = make(map[string]time.Time)
	alertNow  = time.Now
)

// shouldAlert reports whether key has not alerted within interval and, if
// so, records the attempt.
func shouldAlert(key string, interval time.Duration) bool {
	alertLock.Lock()
	defer alertLock.Unlock()
	now := alertNow()
	if last, ok := lastAlert[key]; ok && now.Sub(last) < interval {
		return false
	}
	lastAlert[key] = now
	return true
}

// Alert fans a message out to the message pusher and Feishu, at most once
// per ALERT_INTERVAL for the same key.
func Alert(key string, title string, content string) {
	if config.MessagePusherAddress == "" && config.FeishuWebhookUrls == "" {
		return
	}
	if !shouldAlert(key, time.Duration(config.AlertInterval)*time.Second) {
		return
	}
	if config.MessagePusherAddress != "" {
		if err := SendMessage(title, content, content); err != nil {
			logger.SysError(fmt.Sprintf("failed to send message: %s", err.Error()))
		}
	}
	if err := SendFeishuNotification(title, content, "red"); err != nil {
		logger.SysError(fmt.Sprintf("failed to send feishu notification: %s", err.Error()))
	}
}
