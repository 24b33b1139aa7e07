package studio

import "github.com/samber/lo"

const (
	ModelFlux = "flux"
	ModelSDXL = "sdxl"

	DefaultModel          = ModelFlux
	DefaultNegativePrompt = "low quality, blurry, watermark, text"

	// GalleryLimit is how many results a view keeps, newest first.
	GalleryLimit = 6
)

// Form bounds rendered into the page inputs.
const (
	MinDimension  = 256
	MaxDimension  = 1024
	DimensionStep = 64
	MinSteps      = 1
	MaxSteps      = 50
	MinGuidance   = 1
	MaxGuidance   = 20
	GuidanceStep  = 0.1
)

type ModelDefaults struct {
	Name          string  `json:"name"`
	Label         string  `json:"label"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Steps         int     `json:"steps"`
	GuidanceScale float64 `json:"guidance_scale"`
}

var Models = []ModelDefaults{
	{Name: ModelFlux, Label: "FLUX.1-schnell", Width: 768, Height: 1024, Steps: 20, GuidanceScale: 3.5},
	{Name: ModelSDXL, Label: "Stable Diffusion XL", Width: 768, Height: 1024, Steps: 30, GuidanceScale: 7.5},
}

func DefaultsFor(name string) (ModelDefaults, bool) {
	return lo.Find(Models, func(m ModelDefaults) bool {
		return m.Name == name
	})
}

var SamplePrompts = []string{
	"A luxury perfume bottle on a marble surface with soft lighting, product photography style",
	"Elegant glass perfume bottle with golden accents, surrounded by rose petals, studio lighting",
}
