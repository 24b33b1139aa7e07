package message

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/songquanpeng/image-studio/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldAlertThrottles(t *testing.T) {
	now := time.Unix(1700000000, 0)
	alertNow = func() time.Time { return now }
	defer func() { alertNow = time.Now }()

	assert.True(t, shouldAlert("k", time.Minute))
	assert.False(t, shouldAlert("k", time.Minute))
	assert.True(t, shouldAlert("other", time.Minute))
	now = now.Add(2 * time.Minute)
	assert.True(t, shouldAlert("k", time.Minute))
}

func TestAlertDelivers(t *testing.T) {
	var pusherCalls, feishuCalls int32
	var pushed request
	pusher := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pusherCalls, 1)
		_ = json.NewDecoder(r.Body).Decode(&pushed)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer pusher.Close()
	feishu := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feishuCalls, 1)
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer feishu.Close()

	previous := [3]string{config.MessagePusherAddress, config.FeishuWebhookUrls, config.SystemName}
	config.MessagePusherAddress = pusher.URL
	config.FeishuWebhookUrls = feishu.URL + "\n ,"
	config.SystemName = "Studio"
	defer func() {
		config.MessagePusherAddress, config.FeishuWebhookUrls, config.SystemName = previous[0], previous[1], previous[2]
	}()

	Alert("deliver-test", "token rejected", "status 401")
	Alert("deliver-test", "token rejected", "status 401")

	assert.EqualValues(t, 1, atomic.LoadInt32(&pusherCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&feishuCalls))
	assert.Equal(t, "[Studio] token rejected", pushed.Title)
	assert.Equal(t, "status 401", pushed.Content)
}

func TestSendFeishuNotificationFailure(t *testing.T) {
	feishu := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":19001,"msg":"param invalid"}`))
	}))
	defer feishu.Close()

	previous := config.FeishuWebhookUrls
	config.FeishuWebhookUrls = feishu.URL
	defer func() { config.FeishuWebhookUrls = previous }()

	err := SendFeishuNotification("t", "c", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "param invalid")
}
