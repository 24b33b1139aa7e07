package helper

import (
	"github.com/samber/lo"
	"github.com/songquanpeng/image-studio/relay/channel"
	"github.com/songquanpeng/image-studio/relay/channel/huggingface"
)

func GetAdaptor(modelName string) channel.Adaptor {
	if lo.Contains(huggingface.ModelList, modelName) {
		return &huggingface.Adaptor{}
	}
	return nil
}

// ModelList returns every model name some adaptor can serve.
func ModelList() []string {
	adaptor := &huggingface.Adaptor{}
	return adaptor.GetModelList()
}
