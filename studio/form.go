package studio

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	relaymodel "github.com/songquanpeng/image-studio/relay/model"
)

// Form is the editable state behind the generate form.
type Form struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"steps"`
	GuidanceScale  float64 `json:"guidance_scale"`
}

func NewForm() Form {
	form := Form{NegativePrompt: DefaultNegativePrompt}
	defaults, _ := DefaultsFor(DefaultModel)
	form.applyDefaults(defaults)
	return form
}

func (f *Form) applyDefaults(defaults ModelDefaults) {
	f.Model = defaults.Name
	f.Width = defaults.Width
	f.Height = defaults.Height
	f.Steps = defaults.Steps
	f.GuidanceScale = defaults.GuidanceScale
}

// Request builds the body posted to the generation endpoint.
func (f Form) Request() (*relaymodel.GenerationRequest, error) {
	request := &relaymodel.GenerationRequest{}
	if err := copier.Copy(request, &f); err != nil {
		return nil, errors.Wrap(err, "copy form")
	}
	return request, nil
}
