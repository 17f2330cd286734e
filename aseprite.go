package flipbook

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/setanarut/aseprite"
	"golang.org/x/image/draw"
)

// NewAnimesFromAsepriteFile decodes the Aseprite file at path and returns one
// Anime per tag, keyed by tag name. Each tag is laid out as its own
// horizontal strip.
//
// Tags with a repeat count of zero loop forever, the others hold on their
// last frame. Layers are flattened with normal blending.
func NewAnimesFromAsepriteFile(path string) (map[string]*Anime, error) {
	ase, err := aseprite.Read(path)
	if err != nil {
		return nil, fmt.Errorf("decoding aseprite %s: %w", path, err)
	}
	return fromAseprite(&ase, ebiten.NewImageFromImage)
}

// NewAnimesFromAsepriteFileSystem is NewAnimesFromAsepriteFile on path in fsys.
func NewAnimesFromAsepriteFileSystem(fsys fs.FS, path string) (map[string]*Anime, error) {
	ase, err := aseprite.ReadFs(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("decoding aseprite %s: %w", path, err)
	}
	return fromAseprite(&ase, ebiten.NewImageFromImage)
}

func fromAseprite(ase *aseprite.Ase, newImage func(image.Image) *ebiten.Image) (map[string]*Anime, error) {
	if len(ase.Tags) == 0 {
		return nil, fmt.Errorf("aseprite file has no tags: %w", ErrInvalidArgument)
	}
	animes := make(map[string]*Anime, len(ase.Tags))
	for _, tag := range ase.Tags {
		order, err := tagFrames(tag.Lo, tag.Hi, tag.LoopDirection, len(ase.Frames))
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag.Name, err)
		}
		durations := make([]time.Duration, len(order))
		for i, f := range order {
			durations[i] = ase.Frames[f].Dur
		}
		strip := newImage(composeStrip(ase, order))
		a, err := NewAnimeWithDurations(Handle{strip}, durations, tag.Repeat == 0)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag.Name, err)
		}
		animes[tag.Name] = a
	}
	return animes, nil
}

// tagFrames returns the frame indices of a tag in playback order.
func tagFrames(lo, hi uint16, dir aseprite.LoopDirection, frameCount int) ([]int, error) {
	if lo > hi || int(hi) >= frameCount {
		return nil, fmt.Errorf("frame range %d-%d of %d frames: %w", lo, hi, frameCount, ErrInvalidArgument)
	}
	order := make([]int, 0, int(hi-lo+1)*2)
	for i := int(lo); i <= int(hi); i++ {
		order = append(order, i)
	}
	switch dir {
	case aseprite.Reverse:
		slices.Reverse(order)
	case aseprite.PingPong:
		for i := len(order) - 2; i > 0; i-- {
			order = append(order, order[i])
		}
	case aseprite.PingPongReverse:
		slices.Reverse(order)
		for i := len(order) - 2; i > 0; i-- {
			order = append(order, order[i])
		}
	}
	return order, nil
}

// composeStrip flattens the given frames side by side into one image of
// canvas-sized cells.
func composeStrip(ase *aseprite.Ase, order []int) *image.NRGBA {
	strip := image.NewNRGBA(image.Rect(0, 0, ase.Width*len(order), ase.Height))
	canvas := image.Rect(0, 0, ase.Width, ase.Height)
	for i, f := range order {
		offset := image.Pt(i*ase.Width, 0)
		for j, cel := range ase.Frames[f].Cels {
			if cel.Image == nil || j >= len(ase.Layers) {
				continue
			}
			r := cel.Image.Bounds().Intersect(canvas)
			if r.Empty() {
				continue
			}
			opacity := uint8(int(cel.Opacity) * int(ase.Layers[j].Opacity) / 255)
			mask := image.NewUniform(color.Alpha{opacity})
			draw.DrawMask(strip, r.Add(offset), cel.Image, r.Min, mask, image.Point{}, draw.Over)
		}
	}
	return strip
}
