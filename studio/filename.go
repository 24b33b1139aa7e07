package studio

import (
	"regexp"

	"github.com/songquanpeng/image-studio/common/helper"
	"github.com/songquanpeng/image-studio/common/image"
)

const maxFilenamePromptLength = 50

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DownloadName derives a file name from the first 50 characters of the
// prompt with everything but ASCII letters and digits replaced by "_".
func DownloadName(prompt string, contentType string) string {
	base := unsafeFilenameChars.ReplaceAllString(helper.Truncate(prompt, maxFilenamePromptLength), "_")
	return base + image.ExtensionFor(contentType)
}
