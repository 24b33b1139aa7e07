package model

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func validRequest() GenerationRequest {
	return GenerationRequest{
		Model:         "flux",
		Prompt:        "a red fox in snow",
		Width:         768,
		Height:        1024,
		Steps:         20,
		GuidanceScale: 3.5,
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	req := validRequest()
	report, ok := Validate(&req, binding.Validator.ValidateStruct(&req))
	assert.True(t, ok)
	assert.True(t, report.Empty())
}

func TestValidateMissingFields(t *testing.T) {
	req := validRequest()
	req.Width = 0
	req.GuidanceScale = 0
	req.Prompt = "   "

	report, ok := Validate(&req, binding.Validator.ValidateStruct(&req))
	assert.True(t, ok)
	assert.Equal(t, []string{"prompt", "width", "guidance_scale"}, report.Missing)
	assert.Equal(t, "Missing required fields: prompt, width, guidance_scale", report.Message())
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenerationRequest)
		want   string
	}{
		{"width too small", func(r *GenerationRequest) { r.Width = 128 }, "width must be at least 256"},
		{"height too large", func(r *GenerationRequest) { r.Height = 2048 }, "height must be at most 1024"},
		{"width off step", func(r *GenerationRequest) { r.Width = 300 }, "width must be a multiple of 64"},
		{"steps too many", func(r *GenerationRequest) { r.Steps = 51 }, "steps must be at most 50"},
		{"guidance too high", func(r *GenerationRequest) { r.GuidanceScale = 20.5 }, "guidance_scale must be at most 20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			report, ok := Validate(&req, binding.Validator.ValidateStruct(&req))
			assert.True(t, ok)
			assert.Empty(t, report.Missing)
			assert.Contains(t, report.Invalid, tt.want)
		})
	}
}

func TestValidateNonValidationError(t *testing.T) {
	req := validRequest()
	_, ok := Validate(&req, assert.AnError)
	assert.False(t, ok)
}
