package studio

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/songquanpeng/image-studio/common/image"
	"github.com/songquanpeng/image-studio/common/logger"
)

var (
	ErrBusy          = errors.New("a generation is already in progress")
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrUnknownModel  = errors.New("unknown model")
	ErrUnknownSample = errors.New("unknown sample prompt")
	ErrImageNotFound = errors.New("image not found")
	ErrClosed        = errors.New("studio view is closed")
)

// View is the state of one studio page: the form, the in-flight flag, the
// last error and the gallery of recent results.
type View struct {
	id        string
	generator Generator
	now       func() time.Time

	mu         sync.Mutex
	form       Form
	busy       bool
	lastError  string
	gallery    *Gallery
	closed     bool
	lastActive time.Time
}

func NewView(id string, generator Generator) *View {
	v := &View{
		id:        id,
		generator: generator,
		now:       time.Now,
		form:      NewForm(),
		gallery:   newGallery(GalleryLimit),
	}
	v.lastActive = v.now()
	return v
}

func (v *View) Id() string {
	return v.id
}

// touch must be called with mu held.
func (v *View) touch() {
	v.lastActive = v.now()
}

func (v *View) LastActive() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastActive
}

// SelectModel switches the model and resets width, height, steps and
// guidance scale to its defaults. Prompts are kept.
func (v *View) SelectModel(name string) error {
	defaults, ok := DefaultsFor(name)
	if !ok {
		return errors.Wrapf(ErrUnknownModel, "model %q", name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.form.applyDefaults(defaults)
	return nil
}

// ApplySample replaces the prompt with the i-th sample prompt.
func (v *View) ApplySample(i int) error {
	if i < 0 || i >= len(SamplePrompts) {
		return errors.Wrapf(ErrUnknownSample, "index %d", i)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	v.form.Prompt = SamplePrompts[i]
	return nil
}

func (v *View) update(f func(form *Form)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	f(&v.form)
}

func (v *View) SetPrompt(prompt string) {
	v.update(func(form *Form) { form.Prompt = prompt })
}

func (v *View) SetNegativePrompt(negativePrompt string) {
	v.update(func(form *Form) { form.NegativePrompt = negativePrompt })
}

func (v *View) SetWidth(width int) {
	v.update(func(form *Form) { form.Width = width })
}

func (v *View) SetHeight(height int) {
	v.update(func(form *Form) { form.Height = height })
}

func (v *View) SetSteps(steps int) {
	v.update(func(form *Form) { form.Steps = steps })
}

func (v *View) SetGuidanceScale(guidanceScale float64) {
	v.update(func(form *Form) { form.GuidanceScale = guidanceScale })
}

// Submit posts the current form and, on success, prepends the result to
// the gallery. Only one submission runs at a time.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()
	switch {
	case v.closed:
		v.mu.Unlock()
		return ErrClosed
	case v.busy:
		v.mu.Unlock()
		return ErrBusy
	case strings.TrimSpace(v.form.Prompt) == "":
		v.mu.Unlock()
		return ErrEmptyPrompt
	}
	v.busy = true
	v.lastError = ""
	v.touch()
	form := v.form
	v.mu.Unlock()

	result, err := v.generate(ctx, form)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	v.touch()
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			v.lastError = genErr.Message
		} else {
			v.lastError = GenericErrorMessage
		}
		logger.Warnf(ctx, "studio %s: generation failed: %s", v.id, err.Error())
		return err
	}
	if v.closed {
		return ErrClosed
	}

	img := &Image{
		Id:          uuid.New().String(),
		Data:        result.Data,
		ContentType: result.ContentType,
		Prompt:      form.Prompt,
		Model:       form.Model,
		CreatedAt:   v.now(),
	}
	if width, height, err := image.GetImageSize(result.Data); err == nil {
		img.Width, img.Height = width, height
	}
	if evicted := v.gallery.Push(img); evicted > 0 {
		logger.Debugf(ctx, "studio %s: evicted %d image(s)", v.id, evicted)
	}
	return nil
}

func (v *View) generate(ctx context.Context, form Form) (*Result, error) {
	request, err := form.Request()
	if err != nil {
		return nil, err
	}
	return v.generator.Generate(ctx, request)
}

// Image returns a gallery entry by id.
func (v *View) Image(id string) (Image, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	img, ok := v.gallery.Get(id)
	if !ok {
		return Image{}, errors.Wrapf(ErrImageNotFound, "id %q", id)
	}
	v.touch()
	return *img, nil
}

// Download returns the bytes of an image with the file name to save it as.
func (v *View) Download(id string) (data []byte, filename string, contentType string, err error) {
	img, err := v.Image(id)
	if err != nil {
		return nil, "", "", err
	}
	return img.Data, DownloadName(img.Prompt, img.ContentType), img.ContentType, nil
}

// Close releases every image. Later submissions fail with ErrClosed.
func (v *View) Close() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return v.gallery.Clear()
}

func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

type ImageInfo struct {
	Id          string    `json:"id"`
	Prompt      string    `json:"prompt"`
	Model       string    `json:"model"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"created_at"`
}

// State is a read-only snapshot used for rendering.
type State struct {
	Id        string      `json:"id"`
	Form      Form        `json:"form"`
	Busy      bool        `json:"busy"`
	Error     string      `json:"error,omitempty"`
	CanSubmit bool        `json:"can_submit"`
	Images    []ImageInfo `json:"images"`
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		Id:        v.id,
		Form:      v.form,
		Busy:      v.busy,
		Error:     v.lastError,
		CanSubmit: !v.busy && !v.closed && strings.TrimSpace(v.form.Prompt) != "",
		Images: lo.Map(v.gallery.List(), func(img *Image, _ int) ImageInfo {
			return ImageInfo{
				Id:          img.Id,
				Prompt:      img.Prompt,
				Model:       img.Model,
				ContentType: img.ContentType,
				Size:        img.Size(),
				Width:       img.Width,
				Height:      img.Height,
				CreatedAt:   img.CreatedAt,
			}
		}),
	}
}
