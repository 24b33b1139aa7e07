package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/songquanpeng/image-studio/common/config"
)

func feishuWebhooks() []string {
	urls := strings.FieldsFunc(config.FeishuWebhookUrls, func(r rune) bool {
		return r == '\n' || r == ','
	})
	return lo.Compact(lo.Map(urls, func(u string, _ int) string {
		return strings.TrimSpace(u)
	}))
}

// SendFeishuNotification sends a card to every configured webhook. It
// succeeds when at least one webhook accepts it.
func SendFeishuNotification(title string, content string, color string) error {
	webhooks := feishuWebhooks()
	if len(webhooks) == 0 {
		return nil
	}
	jsonData, err := json.Marshal(buildFeishuCardMessage(withSystemName(title), content, color))
	if err != nil {
		return errors.Wrap(err, "marshal feishu card")
	}

	var lastErr error
	sent := 0
	for _, webhook := range webhooks {
		if err := sendSingleFeishuRequest(webhook, jsonData); err != nil {
			lastErr = err
			continue
		}
		sent++
	}
	if sent == 0 && lastErr != nil {
		return errors.Wrap(lastErr, "all feishu webhooks failed")
	}
	return nil
}

func sendSingleFeishuRequest(webhook string, jsonData []byte) error {
	resp, err := messageClient.Post(webhook, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var feishuResp struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&feishuResp); err != nil {
		// an undecodable body with 200 still counts as delivered
		if resp.StatusCode == http.StatusOK {
			return nil
		}
		return fmt.Errorf("feishu webhook returned status %d", resp.StatusCode)
	}
	if feishuResp.Code != 0 {
		return fmt.Errorf("feishu webhook error: %s", feishuResp.Msg)
	}
	return nil
}

func buildFeishuCardMessage(title string, content string, color string) map[string]any {
	return map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"header": map[string]any{
				"title": map[string]any{
					"tag":     "plain_text",
					"content": title,
				},
				"template": color,
			},
			"elements": []map[string]any{
				{
					"tag": "div",
					"text": map[string]any{
						"tag":     "lark_md",
						"content": content,
					},
				},
			},
		},
	}
}
