package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	relaymodel "github.com/songquanpeng/image-studio/relay/model"
	"github.com/songquanpeng/image-studio/studio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	requests []*relaymodel.GenerationRequest
}

func (g *stubGenerator) Generate(ctx context.Context, request *relaymodel.GenerationRequest) (*studio.Result, error) {
	g.requests = append(g.requests, request)
	return &studio.Result{Data: pngBytes, ContentType: "image/png"}, nil
}

type browser struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newStudioBrowser(t *testing.T, generator studio.Generator) *browser {
	gin.SetMode(gin.TestMode)
	manager := studio.NewManager(generator, time.Hour)
	studioController, err := NewStudio(manager)
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))
	engine.GET("/", studioController.Index)
	engine.GET("/studio/state", studioController.GetState)
	engine.POST("/studio/model", studioController.SelectModel)
	engine.POST("/studio/sample", studioController.ApplySample)
	engine.POST("/studio/generate", studioController.Generate)
	engine.GET("/studio/images/:id", studioController.Image)
	engine.GET("/studio/images/:id/download", studioController.Download)
	engine.POST("/studio/close", studioController.Close)
	return &browser{t: t, engine: engine, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) state() studio.State {
	w := b.get("/studio/state")
	require.Equal(b.t, http.StatusOK, w.Code)
	var state studio.State
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func TestStudioIndexRenders(t *testing.T) {
	b := newStudioBrowser(t, &stubGenerator{})
	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Generate Image")
	assert.Contains(t, body, "FLUX.1-schnell")
	assert.Contains(t, body, "No images generated yet")
	assert.Contains(t, body, studio.SamplePrompts[0])
	assert.Contains(t, b.cookies, "session")
}

func TestStudioGenerateFlow(t *testing.T) {
	generator := &stubGenerator{}
	b := newStudioBrowser(t, generator)
	b.get("/")

	w := b.post("/studio/sample", url.Values{"index": {"0"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, studio.SamplePrompts[0], b.state().Form.Prompt)

	w = b.post("/studio/generate", url.Values{
		"model":           {"flux"},
		"prompt":          {"A cat, in space!"},
		"negative_prompt": {"blurry"},
		"width":           {"512"},
		"height":          {"640"},
		"steps":           {"8"},
		"guidance_scale":  {"4.5"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	require.Len(t, generator.requests, 1)
	request := generator.requests[0]
	assert.Equal(t, "A cat, in space!", request.Prompt)
	assert.Equal(t, "blurry", request.NegativePrompt)
	assert.Equal(t, 512, request.Width)
	assert.Equal(t, 640, request.Height)
	assert.Equal(t, 8, request.Steps)
	assert.Equal(t, 4.5, request.GuidanceScale)

	state := b.state()
	require.Len(t, state.Images, 1)
	id := state.Images[0].Id

	w = b.get("/studio/images/" + id)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngBytes, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = b.get("/studio/images/" + id + "/download")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="A_cat__in_space_.png"`, w.Header().Get("Content-Disposition"))

	w = b.get("/studio/images/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = b.post("/studio/model", url.Values{"model": {"sdxl"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	form := b.state().Form
	assert.Equal(t, "sdxl", form.Model)
	assert.Equal(t, 30, form.Steps)
	assert.Equal(t, 768, form.Width)
	assert.Equal(t, "A cat, in space!", form.Prompt)

	w = b.post("/studio/close", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	state = b.state()
	assert.Empty(t, state.Images)
	assert.Equal(t, "flux", state.Form.Model)
}

func TestStudioRejectsBadInput(t *testing.T) {
	generator := &stubGenerator{}
	b := newStudioBrowser(t, generator)

	w := b.post("/studio/model", url.Values{"model": {"dalle"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.post("/studio/sample", url.Values{"index": {"9"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.post("/studio/generate", url.Values{"prompt": {"p"}, "width": {"wide"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, generator.requests)

	w = b.post("/studio/generate", url.Values{"prompt": {"  "}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, generator.requests)
}

func TestStudioModelSwitchKeepsTypedPrompt(t *testing.T) {
	b := newStudioBrowser(t, &stubGenerator{})
	body := b.get("/").Body.String()
	assert.Contains(t, body, `formaction="/studio/model"`)
	assert.Contains(t, body, `formaction="/studio/sample"`)
	assert.NotContains(t, body, `<form method="post" action="/studio/model"`)

	w := b.post("/studio/model", url.Values{
		"model":           {"sdxl"},
		"prompt":          {"typed"},
		"negative_prompt": {"grainy"},
		"width":           {"512"},
		"steps":           {"4"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	form := b.state().Form
	assert.Equal(t, "sdxl", form.Model)
	assert.Equal(t, "typed", form.Prompt)
	assert.Equal(t, "grainy", form.NegativePrompt)
	assert.Equal(t, 768, form.Width)
	assert.Equal(t, 30, form.Steps)
	assert.Equal(t, 7.5, form.GuidanceScale)

	w = b.post("/studio/model", url.Values{"model": {"dalle"}, "prompt": {"lost"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "typed", b.state().Form.Prompt)
}

func TestStudioSampleKeepsOtherFields(t *testing.T) {
	b := newStudioBrowser(t, &stubGenerator{})
	b.get("/")

	w := b.post("/studio/sample", url.Values{
		"index":           {"1"},
		"model":           {"flux"},
		"prompt":          {"replaced"},
		"negative_prompt": {"grainy"},
		"width":           {"512"},
		"guidance_scale":  {"2.5"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	form := b.state().Form
	assert.Equal(t, studio.SamplePrompts[1], form.Prompt)
	assert.Equal(t, "grainy", form.NegativePrompt)
	assert.Equal(t, 512, form.Width)
	assert.Equal(t, 2.5, form.GuidanceScale)
}

func TestStudioSubmitControlAndGalleryCount(t *testing.T) {
	b := newStudioBrowser(t, &stubGenerator{})

	body := b.get("/").Body.String()
	assert.Contains(t, body, `id="generate" class="primary" disabled`)
	assert.Contains(t, body, "Gallery (0/6)")

	b.post("/studio/generate", url.Values{"prompt": {"a red fox"}})
	body = b.get("/").Body.String()
	assert.NotContains(t, body, `id="generate" class="primary" disabled`)
	assert.Contains(t, body, "Gallery (1/6)")
}
