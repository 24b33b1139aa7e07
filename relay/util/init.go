package util

import (
	"net/http"
	"time"

	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/service"
)

// HTTPClient carries upstream inference calls.
var HTTPClient *http.Client

func init() {
	timeout := time.Duration(config.RelayTimeout) * time.Second
	client, err := service.NewProxyHttpClient(config.RelayProxy, timeout)
	if err != nil {
		logger.SysError("invalid RELAY_PROXY, falling back to a direct connection: " + err.Error())
		client = &http.Client{Timeout: timeout}
	}
	HTTPClient = client
}
