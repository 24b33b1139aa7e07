package model

// GenerationRequest is the body accepted by POST /api/generate.
type GenerationRequest struct {
	Model          string  `json:"model" form:"model" binding:"required"`
	Prompt         string  `json:"prompt" form:"prompt" binding:"required"`
	NegativePrompt string  `json:"negative_prompt,omitempty" form:"negative_prompt"`
	Width          int     `json:"width" form:"width" binding:"required,min=256,max=1024,multiple_of=64"`
	Height         int     `json:"height" form:"height" binding:"required,min=256,max=1024,multiple_of=64"`
	Steps          int     `json:"steps" form:"steps" binding:"required,min=1,max=50"`
	GuidanceScale  float64 `json:"guidance_scale" form:"guidance_scale" binding:"required,min=1,max=20"`
}

// RequiredFields lists the JSON names that must be present, in report order.
var RequiredFields = []string{"model", "prompt", "width", "height", "steps", "guidance_scale"}

// ImageResult describes an image relayed back to the caller.
type ImageResult struct {
	ContentType string
	Size        int
	StatusCode  int
}
