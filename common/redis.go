package common

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/songquanpeng/image-studio/common/logger"
)

var RDB *redis.Client
var RedisEnabled = false

// InitRedisClient connects when REDIS_CONN_STRING is set; otherwise the
// in-memory fallbacks are used.
func InitRedisClient() (err error) {
	if os.Getenv("REDIS_CONN_STRING") == "" {
		RedisEnabled = false
		logger.SysLog("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}
	logger.SysLog("Redis is enabled")
	opt, err := redis.ParseURL(os.Getenv("REDIS_CONN_STRING"))
	if err != nil {
		return err
	}
	RDB = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = RDB.Ping(ctx).Result()
	if err != nil {
		return err
	}
	RedisEnabled = true
	return nil
}

func CloseRedisClient() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}
