package config

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cutroom/cutroom-agent/internal/timeline"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named render target new projects can start from.
type Preset struct {
	Name    string  `yaml:"name" json:"name"`
	Width   int     `yaml:"width" json:"width"`
	Height  int     `yaml:"height" json:"height"`
	FPS     float64 `yaml:"fps" json:"fps"`
	Bitrate int     `yaml:"bitrate" json:"bitrate"`
	Format  string  `yaml:"format" json:"format"`
}

// Output converts the preset into timeline output settings.
func (p Preset) Output() timeline.Output {
	return timeline.Output{
		Width:   p.Width,
		Height:  p.Height,
		FPS:     p.FPS,
		Bitrate: p.Bitrate,
		Format:  p.Format,
	}
}

var presets = mustLoadPresets()

func mustLoadPresets() map[string]Preset {
	var doc struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(presetsYAML, &doc); err != nil {
		panic(fmt.Sprintf("config: bad embedded presets.yaml: %v", err))
	}
	out := make(map[string]Preset, len(doc.Presets))
	for _, p := range doc.Presets {
		out[p.Name] = p
	}
	return out
}

// PresetByName looks up a render preset.
func PresetByName(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// Presets returns all presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
