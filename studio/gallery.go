package studio

import "time"

// Image is one generated result held in memory.
type Image struct {
	Id          string
	Data        []byte
	ContentType string
	Prompt      string
	Model       string
	CreatedAt   time.Time
	// pixel size, zero when the format could not be decoded
	Width  int
	Height int
}

func (img *Image) Size() int {
	return len(img.Data)
}

func (img *Image) release() {
	img.Data = nil
}

// Gallery is a bounded most-recent-first list. It is not safe for
// concurrent use; View serializes access.
type Gallery struct {
	images []*Image
	limit  int
}

func newGallery(limit int) *Gallery {
	return &Gallery{limit: limit}
}

// Push prepends img and releases whatever falls off the end.
func (g *Gallery) Push(img *Image) int {
	g.images = append([]*Image{img}, g.images...)
	if len(g.images) <= g.limit {
		return 0
	}
	evicted := g.images[g.limit:]
	for _, old := range evicted {
		old.release()
	}
	g.images = g.images[:g.limit:g.limit]
	return len(evicted)
}

func (g *Gallery) Get(id string) (*Image, bool) {
	for _, img := range g.images {
		if img.Id == id {
			return img, true
		}
	}
	return nil, false
}

func (g *Gallery) Len() int {
	return len(g.images)
}

func (g *Gallery) List() []*Image {
	return append([]*Image(nil), g.images...)
}

// Clear releases every image and returns how many were held.
func (g *Gallery) Clear() int {
	n := len(g.images)
	for _, img := range g.images {
		img.release()
	}
	g.images = nil
	return n
}
