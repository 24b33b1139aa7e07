package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/songquanpeng/image-studio/common/config"
)

var messageClient = &http.Client{Timeout: 10 * time.Second}

type request struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Token       string `json:"token"`
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func withSystemName(title string) string {
	if config.SystemName == "" {
		return title
	}
	return fmt.Sprintf("[%s] %s", config.SystemName, title)
}

// SendMessage posts to a message-pusher server.
func SendMessage(title string, description string, content string) error {
	if config.MessagePusherAddress == "" {
		return errors.New("message pusher address is not set")
	}
	data, err := json.Marshal(request{
		Title:       withSystemName(title),
		Description: description,
		Content:     content,
		URL:         config.ServerAddress,
		Token:       config.MessagePusherToken,
	})
	if err != nil {
		return err
	}
	resp, err := messageClient.Post(config.MessagePusherAddress, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return errors.Wrap(err, "post message")
	}
	defer resp.Body.Close()

	var res response
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return errors.Wrapf(err, "decode message pusher response (status %d)", resp.StatusCode)
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}
