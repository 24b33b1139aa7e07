package controller

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/songquanpeng/image-studio/common"
	"github.com/songquanpeng/image-studio/common/config"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/studio"
	"github.com/songquanpeng/image-studio/web"
)

const studioSessionKey = "studio_id"

type formBounds struct {
	MinDimension  int
	MaxDimension  int
	DimensionStep int
	MinSteps      int
	MaxSteps      int
	MinGuidance   float64
	MaxGuidance   float64
	GuidanceStep  float64
}

var bounds = formBounds{
	MinDimension:  studio.MinDimension,
	MaxDimension:  studio.MaxDimension,
	DimensionStep: studio.DimensionStep,
	MinSteps:      studio.MinSteps,
	MaxSteps:      studio.MaxSteps,
	MinGuidance:   studio.MinGuidance,
	MaxGuidance:   studio.MaxGuidance,
	GuidanceStep:  studio.GuidanceStep,
}

type studioPage struct {
	SystemName string
	Version    string
	Models     []studio.ModelDefaults
	Samples    []string
	Bounds     formBounds
	Limit      int
	State      studio.State
}

// Studio serves the HTML front end, one studio.View per browser session.
type Studio struct {
	manager        *studio.Manager
	tmpl           *template.Template
	requestTimeout time.Duration
}

func NewStudio(manager *studio.Manager) (*Studio, error) {
	tmpl, err := template.ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse studio templates")
	}
	return &Studio{
		manager:        manager,
		tmpl:           tmpl,
		requestTimeout: time.Duration(config.StudioRequestTimeout) * time.Second,
	}, nil
}

func sessionViewId(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(studioSessionKey).(string)
	return id
}

func (s *Studio) view(c *gin.Context) *studio.View {
	id := sessionViewId(c)
	view := s.manager.GetOrOpen(id)
	if view.Id() != id {
		session := sessions.Default(c)
		session.Set(studioSessionKey, view.Id())
		if err := session.Save(); err != nil {
			logger.Warn(c.Request.Context(), "failed to save studio session: "+err.Error())
		}
	}
	return view
}

func (s *Studio) render(c *gin.Context, view *studio.View) {
	page := studioPage{
		SystemName: config.SystemName,
		Version:    common.Version,
		Models:     studio.Models,
		Samples:    studio.SamplePrompts,
		Bounds:     bounds,
		Limit:      studio.GalleryLimit,
		State:      view.State(),
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		logger.Error(c.Request.Context(), "failed to render studio: "+err.Error())
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func backToStudio(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Studio) Index(c *gin.Context) {
	s.render(c, s.view(c))
}

func (s *Studio) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, s.view(c).State())
}

// SelectModel keeps the posted prompt text; the numeric fields are reset
// to the model defaults.
func (s *Studio) SelectModel(c *gin.Context) {
	modelName := c.PostForm("model")
	if _, ok := studio.DefaultsFor(modelName); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model specified"})
		return
	}
	view := s.view(c)
	applyPromptFields(c, view)
	if err := view.SelectModel(modelName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model specified"})
		return
	}
	backToStudio(c)
}

// ApplySample keeps every other posted field and replaces the prompt.
func (s *Studio) ApplySample(c *gin.Context) {
	view := s.view(c)
	index, err := strconv.Atoi(c.PostForm("index"))
	if err != nil || index < 0 || index >= len(studio.SamplePrompts) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sample"})
		return
	}
	if err := applyForm(c, view); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := view.ApplySample(index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sample"})
		return
	}
	backToStudio(c)
}

func applyPromptFields(c *gin.Context, view *studio.View) {
	if prompt, ok := c.GetPostForm("prompt"); ok {
		view.SetPrompt(prompt)
	}
	if negativePrompt, ok := c.GetPostForm("negative_prompt"); ok {
		view.SetNegativePrompt(negativePrompt)
	}
}

// applyForm copies the posted fields that are present onto the view.
func applyForm(c *gin.Context, view *studio.View) error {
	if model, ok := c.GetPostForm("model"); ok && model != view.State().Form.Model {
		if err := view.SelectModel(model); err != nil {
			return err
		}
	}
	applyPromptFields(c, view)
	ints := []struct {
		name string
		set  func(int)
	}{
		{"width", view.SetWidth},
		{"height", view.SetHeight},
		{"steps", view.SetSteps},
	}
	for _, field := range ints {
		raw, ok := c.GetPostForm(field.name)
		if !ok || raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", field.name, raw)
		}
		field.set(value)
	}
	if raw, ok := c.GetPostForm("guidance_scale"); ok && raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid guidance_scale: %q", raw)
		}
		view.SetGuidanceScale(value)
	}
	return nil
}

func (s *Studio) Generate(c *gin.Context) {
	view := s.view(c)
	if err := applyForm(c, view); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	// failures are kept on the view and shown on the next render
	if err := view.Submit(ctx); err != nil {
		logger.Infof(ctx, "studio %s: submit: %s", view.Id(), err.Error())
	}
	backToStudio(c)
}

func (s *Studio) Image(c *gin.Context) {
	img, err := s.view(c).Image(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (s *Studio) Download(c *gin.Context) {
	data, filename, contentType, err := s.view(c).Download(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (s *Studio) Close(c *gin.Context) {
	if id := sessionViewId(c); id != "" {
		s.manager.Close(id)
		session := sessions.Default(c)
		session.Delete(studioSessionKey)
		if err := session.Save(); err != nil {
			logger.Warn(c.Request.Context(), "failed to save studio session: "+err.Error())
		}
	}
	backToStudio(c)
}
