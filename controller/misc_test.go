package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, handler gin.HandlerFunc, target string) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/*path", handler)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestGetStatusHidesToken(t *testing.T) {
	t.Setenv(config.HFTokenEnv, "hf_secret")
	payload := getJSON(t, GetStatus, "/api/status")

	data := payload["data"].(map[string]any)
	assert.Equal(t, true, data["hf_token_configured"])
	assert.ElementsMatch(t, []any{"flux", "sdxl"}, data["models"])
	raw, _ := json.Marshal(payload)
	assert.NotContains(t, string(raw), "hf_secret")
}

func TestListModels(t *testing.T) {
	payload := getJSON(t, ListModels, "/api/models")

	models := payload["data"].([]any)
	require.Len(t, models, 2)
	byId := map[string]map[string]any{}
	for _, m := range models {
		info := m.(map[string]any)
		byId[info["id"].(string)] = info
	}
	assert.Equal(t, "black-forest-labs/FLUX.1-schnell", byId["flux"]["repository"])
	assert.EqualValues(t, 20, byId["flux"]["steps"])
	assert.Equal(t, "stabilityai/stable-diffusion-xl-base-1.0", byId["sdxl"]["repository"])
	assert.EqualValues(t, 7.5, byId["sdxl"]["guidance_scale"])
}

func TestGetGenerationLogsWithoutDatabase(t *testing.T) {
	previous := model.LOG_DB
	model.LOG_DB = nil
	defer func() { model.LOG_DB = previous }()

	payload := getJSON(t, GetGenerationLogs, "/api/log?limit=5")
	assert.Equal(t, true, payload["success"])
	assert.Empty(t, payload["data"])
}

func TestGetHealth(t *testing.T) {
	payload := getJSON(t, GetHealth, "/api/monitor/health")
	assert.Equal(t, "ok", payload["status"])
	assert.Contains(t, payload, "metrics")
}

func TestBuildFeed(t *testing.T) {
	logs := []*model.GenerationLog{
		{RequestId: "old", ModelName: "flux", Prompt: "a red fox", StatusCode: 200, CreatedAt: 100, Width: 768, Height: 1024, Steps: 20},
		{RequestId: "new", ModelName: "sdxl", Prompt: "a blue whale", StatusCode: 503, CreatedAt: 200},
	}
	feed := buildFeed(logs)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "new", feed.Items[0].Id)
	assert.Contains(t, feed.Items[0].Description, "failed (503)")
	assert.Equal(t, "flux:a red fox", feed.Items[1].Title)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "<rss")
}
