package image

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"
)

const DefaultContentType = "image/png"

var readerPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Reader{}
	},
}

// IsImageContentType reports whether a Content-Type header names an image.
func IsImageContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}

// DetectContentType prefers the declared type when it is an image type,
// falls back to sniffing the bytes, and finally to image/png.
func DetectContentType(data []byte, declared string) string {
	if IsImageContentType(declared) {
		mediaType, _, _ := mime.ParseMediaType(declared)
		return mediaType
	}
	if len(data) > 0 {
		sniffed := http.DetectContentType(data)
		if strings.HasPrefix(sniffed, "image/") {
			return sniffed
		}
	}
	return DefaultContentType
}

// GetImageSize decodes only the header of an encoded image.
func GetImageSize(data []byte) (width int, height int, err error) {
	reader := readerPool.Get().(*bytes.Reader)
	defer readerPool.Put(reader)
	reader.Reset(data)

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// ExtensionFor maps an image MIME type to a file extension.
func ExtensionFor(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return ".jpg"
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	case strings.Contains(mimeType, "bmp"):
		return ".bmp"
	default:
		return ".png"
	}
}
