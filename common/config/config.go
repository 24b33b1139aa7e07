package config

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/songquanpeng/image-studio/common/env"
)

var SystemName = env.String("SYSTEM_NAME", "Image Studio")
var ServerAddress = env.String("SERVER_ADDRESS", "http://localhost:3000")

var ServiceName = env.String("SERVICE_NAME", "image-studio")
var InstanceId = env.String("INSTANCE_ID", hostname())

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}

// Any options with "Secret", "Token" in its key must never be returned by the status API

var SessionSecret = uuid.New().String()

var DebugEnabled = strings.ToLower(os.Getenv("DEBUG")) == "true"
var DebugSQLEnabled = strings.ToLower(os.Getenv("DEBUG_SQL")) == "true"

var IsMasterNode = os.Getenv("NODE_TYPE") != "slave"

// HFTokenEnv names the credential forwarded to the inference API.
const HFTokenEnv = "HF_TOKEN"

// HFToken is read on every call so that rotating the credential does not
// need a restart.
func HFToken() string {
	return strings.TrimSpace(os.Getenv(HFTokenEnv))
}

var HuggingFaceBaseURL = strings.TrimSuffix(env.String("HF_BASE_URL", "https://api-inference.huggingface.co"), "/")

var RelayTimeout = env.Int("RELAY_TIMEOUT", 0) // unit is second
var RelayProxy = env.String("RELAY_PROXY", "")

// MaxImageBytes caps how much of an upstream image body is buffered.
var MaxImageBytes = env.Int("MAX_IMAGE_BYTES", 32<<20)

var GenerationLogEnabled = env.Bool("GENERATION_LOG_ENABLED", true)
var LogRetentionDays = env.Int("LOG_RETENTION_DAYS", 0) // 0 keeps logs forever

var ItemsPerPage = 10
var MaxRecentItems = 100
var FeedItems = env.Int("FEED_ITEMS", 20)

// All duration's unit is seconds
// Shouldn't larger then RateLimitKeyExpirationDuration
var (
	GlobalApiRateLimitNum            = env.Int("GLOBAL_API_RATE_LIMIT", 600)
	GlobalApiRateLimitDuration int64 = 3 * 60

	GenerateRateLimitNum            = env.Int("GENERATE_RATE_LIMIT", 30)
	GenerateRateLimitDuration int64 = int64(env.Int("GENERATE_RATE_LIMIT_DURATION", 60))
)

var RateLimitKeyExpirationDuration = 20 * time.Minute

// StudioProxyURL is where studio views post their generation requests.
// Empty means the local /api/generate of this process.
var StudioProxyURL = env.String("STUDIO_PROXY_URL", "")
var StudioIdleTimeout = env.Int("STUDIO_IDLE_TIMEOUT", 30*60) // unit is second
var StudioSweepSpec = env.String("STUDIO_SWEEP_SPEC", "@every 1m")
var StudioRequestTimeout = env.Int("STUDIO_REQUEST_TIMEOUT", 5*60) // unit is second

var MetricsReportInterval = env.Int("METRICS_REPORT_INTERVAL", 60) // unit is second, 0 disables

// Alerts for a rejected HF_TOKEN go to these targets; all empty disables them.
var MessagePusherAddress = env.String("MESSAGE_PUSHER_ADDRESS", "")
var MessagePusherToken = env.String("MESSAGE_PUSHER_TOKEN", "")
var FeishuWebhookUrls = env.String("FEISHU_WEBHOOK_URLS", "") // newline or comma separated
var AlertInterval = env.Int("ALERT_INTERVAL", 10*60)          // unit is second
