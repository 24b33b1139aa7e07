package huggingface

const (
	ModelFlux = "flux"
	ModelSDXL = "sdxl"
)

var ModelList = []string{
	ModelFlux,
	ModelSDXL,
}

// ModelRepositories maps public model names to Hugging Face repositories.
var ModelRepositories = map[string]string{
	ModelFlux: "black-forest-labs/FLUX.1-schnell",
	ModelSDXL: "stabilityai/stable-diffusion-xl-base-1.0",
}

const DefaultNegativePrompt = "low quality, blurry, watermark, text"
