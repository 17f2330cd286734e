package flipbook

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds the construction parameters of one animation.
type Config struct {
	// Texture is the registry name of the strip image.
	Texture string `yaml:"texture"`
	// Frames may be omitted when Durations is set.
	Frames int `yaml:"frames"`
	// Duration applies to every frame when Durations is empty.
	Duration  time.Duration   `yaml:"duration"`
	Durations []time.Duration `yaml:"durations"`
	// Loop defaults to true.
	Loop *bool `yaml:"loop"`
}

// Looping returns the loop flag with its default applied.
func (c Config) Looping() bool {
	return c.Loop == nil || *c.Loop
}

// Sequencer validates c and returns a new Sequencer for it.
func (c Config) Sequencer() (*Sequencer, error) {
	if len(c.Durations) == 0 {
		return New(c.Frames, c.Duration, c.Looping())
	}
	if c.Frames != 0 && c.Frames != len(c.Durations) {
		return nil, fmt.Errorf("%d frames but %d durations: %w",
			c.Frames, len(c.Durations), ErrInvalidArgument)
	}
	return NewWithDurations(c.Durations, c.Looping())
}

// Manifest lists named animation configs.
type Manifest struct {
	Anims map[string]Config `yaml:"anims"`
}

// ReadManifest decodes a YAML manifest from r.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decoding manifest: %w", err)
	}
	return m, nil
}

// ReadManifestFile decodes the YAML manifest at path.
func ReadManifestFile(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()
	return ReadManifest(f)
}

// Anime builds the named animation with its texture resolved through registry.
func (m Manifest) Anime(name string, registry Lookup) (*Anime, error) {
	c, ok := m.Anims[name]
	if !ok {
		return nil, fmt.Errorf("no animation %q in manifest: %w", name, ErrInvalidArgument)
	}
	seq, err := c.Sequencer()
	if err != nil {
		return nil, fmt.Errorf("animation %q: %w", name, err)
	}
	return newAnime(Asset{Name: c.Texture, Registry: registry}, seq)
}
