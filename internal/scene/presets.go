package scene

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// DefaultPreset is loaded when no scene is configured.
const DefaultPreset = "bounce"

// Presets lists the built-in scene names in alphabetical order.
func Presets() []string {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Preset loads a built-in scene by name.
func Preset(name string) (Document, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	doc, err := Load(bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return doc, nil
}

// Open resolves name as a built-in preset first, then as a path to a YAML
// scene file. An empty name opens DefaultPreset.
func Open(name string) (Document, error) {
	if name == "" {
		name = DefaultPreset
	}
	if slices.Contains(Presets(), name) {
		return Preset(name)
	}
	f, err := os.Open(name)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %q is neither a preset nor a readable file", ErrUnknownPreset, name)
	}
	defer f.Close()
	doc, err := Load(f)
	if err != nil {
		return Document{}, fmt.Errorf("scene file %q: %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return doc, nil
}
