package flipbook

import (
	"maps"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureProvider gives access to the image holding a strip of frames.
// Animations only read from it and never dispose of the image.
type TextureProvider interface {
	// Width is the pixel width of the whole strip.
	Width() int
	// Height is the pixel height of the whole strip.
	Height() int
	IsEmpty() bool
	// SampleRegion returns the drawable sub-image covering r.
	SampleRegion(r Region) *ebiten.Image
}

// Handle is a TextureProvider holding the image directly.
type Handle struct {
	Image *ebiten.Image
}

func (h Handle) Width() int {
	if h.Image == nil {
		return 0
	}
	return h.Image.Bounds().Dx()
}

func (h Handle) Height() int {
	if h.Image == nil {
		return 0
	}
	return h.Image.Bounds().Dy()
}

func (h Handle) IsEmpty() bool {
	return h.Image == nil || h.Image.Bounds().Empty()
}

func (h Handle) SampleRegion(r Region) *ebiten.Image {
	return sample(h.Image, r)
}

// Lookup resolves images by name.
type Lookup interface {
	Lookup(name string) (*ebiten.Image, bool)
}

// Asset is a TextureProvider that looks its image up by name on every call,
// so re-registering the name swaps the texture of running animations.
type Asset struct {
	Name     string
	Registry Lookup
}

func (a Asset) image() *ebiten.Image {
	if a.Registry == nil {
		return nil
	}
	img, ok := a.Registry.Lookup(a.Name)
	if !ok {
		return nil
	}
	return img
}

func (a Asset) Width() int {
	return Handle{a.image()}.Width()
}

func (a Asset) Height() int {
	return Handle{a.image()}.Height()
}

// IsEmpty reports true when the name is not registered or its image is empty.
func (a Asset) IsEmpty() bool {
	return Handle{a.image()}.IsEmpty()
}

func (a Asset) SampleRegion(r Region) *ebiten.Image {
	return sample(a.image(), r)
}

func sample(img *ebiten.Image, r Region) *ebiten.Image {
	if img == nil {
		return nil
	}
	return img.SubImage(r.Rect(img.Bounds())).(*ebiten.Image)
}

// Registry is a name to image table implementing Lookup.
type Registry struct {
	images map[string]*ebiten.Image
}

func NewRegistry() *Registry {
	return &Registry{images: make(map[string]*ebiten.Image)}
}

// Register stores img under name, replacing any previous image.
func (r *Registry) Register(name string, img *ebiten.Image) {
	if r.images == nil {
		r.images = make(map[string]*ebiten.Image)
	}
	r.images[name] = img
}

func (r *Registry) Unregister(name string) {
	if r == nil {
		return
	}
	delete(r.images, name)
}

func (r *Registry) Lookup(name string) (*ebiten.Image, bool) {
	if r == nil {
		return nil, false
	}
	img, ok := r.images[name]
	return img, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.images))
}
