package flipbook

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/setanarut/v"
)

// Delta is the time step of one tick at ebiten's default 60 TPS.
const Delta = time.Second / 60

// Anime plays a strip of frames from a TextureProvider.
type Anime struct {
	// If true, Update does nothing
	Paused bool

	seq *Sequencer
	tex TextureProvider
}

// NewAnime returns an Anime of frameCount frames of equal duration laid out
// left to right in tex.
func NewAnime(tex TextureProvider, frameCount int, duration time.Duration, loop bool) (*Anime, error) {
	seq, err := New(frameCount, duration, loop)
	if err != nil {
		return nil, err
	}
	return newAnime(tex, seq)
}

// NewAnimeWithDurations returns an Anime with one frame per entry of durations.
func NewAnimeWithDurations(tex TextureProvider, durations []time.Duration, loop bool) (*Anime, error) {
	seq, err := NewWithDurations(durations, loop)
	if err != nil {
		return nil, err
	}
	return newAnime(tex, seq)
}

func newAnime(tex TextureProvider, seq *Sequencer) (*Anime, error) {
	if tex == nil {
		return nil, fmt.Errorf("nil texture provider: %w", ErrInvalidArgument)
	}
	return &Anime{seq: seq, tex: tex}, nil
}

// Update advances playback by dt. Call it once per tick.
func (a *Anime) Update(dt time.Duration) {
	if a.Paused {
		return
	}
	a.seq.Advance(dt)
}

// Sequencer gives access to the timing state for seeking and queries.
func (a *Anime) Sequencer() *Sequencer {
	return a.seq
}

// IsEmpty reports true after Release or when the texture is empty.
func (a *Anime) IsEmpty() bool {
	return a.tex == nil || a.seq.FrameCount() == 0 || a.tex.IsEmpty()
}

// Width returns the pixel width of one frame.
func (a *Anime) Width() int {
	if a.tex == nil || a.seq.FrameCount() == 0 {
		return 0
	}
	return a.tex.Width() / a.seq.FrameCount()
}

// Height returns the pixel height of one frame.
func (a *Anime) Height() int {
	if a.tex == nil {
		return 0
	}
	return a.tex.Height()
}

// CurrentFrame returns the sub-image of the active frame.
func (a *Anime) CurrentFrame() (*ebiten.Image, error) {
	if a.IsEmpty() {
		return nil, ErrInvalidState
	}
	r, err := a.seq.Region()
	if err != nil {
		return nil, err
	}
	return a.tex.SampleRegion(r), nil
}

// Draw draws the active frame with its top-left corner at pos.
// Nothing is drawn when the Anime is empty.
func (a *Anime) Draw(dst *ebiten.Image, pos v.Vec) {
	a.draw(dst, pos.X, pos.Y)
}

// DrawAt draws the active frame centered on center.
func (a *Anime) DrawAt(dst *ebiten.Image, center v.Vec) {
	a.draw(dst, center.X-float64(a.Width())/2, center.Y-float64(a.Height())/2)
}

func (a *Anime) draw(dst *ebiten.Image, x, y float64) {
	frame, err := a.CurrentFrame()
	if err != nil || frame == nil {
		return
	}
	op := ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	dst.DrawImage(frame, &op)
}

// Release drops the duration table and the texture reference. The texture
// itself is left to its owner. Release is idempotent.
func (a *Anime) Release() {
	a.seq.Release()
	a.tex = nil
}

func (a *Anime) String() string {
	return fmt.Sprintf("%v\nPaused: %v", a.seq, a.Paused)
}
