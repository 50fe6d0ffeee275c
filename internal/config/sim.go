package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Sim configures a simulation host.
//
//	tick_rate: 120
//	workers: 4
//	log_level: debug
//	scene: billiards
type Sim struct {
	TickRate int    `yaml:"tick_rate"` // Steps per second, dt is its inverse
	Workers  int    `yaml:"workers"`   // Detection goroutines, 1 is serial
	LogLevel string `yaml:"log_level"`
	Scene    string `yaml:"scene"` // Preset name or path to a scene file
}

// ErrInvalidSim is returned for negative settings.
var ErrInvalidSim = errors.New("invalid simulation config")

// DefaultSim returns the settings used when nothing is configured.
func DefaultSim() Sim {
	return Sim{
		TickRate: TickRate,
		Workers:  1,
		LogLevel: "info",
	}
}

// Load decodes a YAML config. Zero values take their defaults and unknown
// keys are rejected. An empty document yields DefaultSim.
func Load(r io.Reader) (Sim, error) {
	var s Sim
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Sim{}, fmt.Errorf("decode config: %w", err)
	}
	if s.TickRate < 0 || s.Workers < 0 {
		return Sim{}, fmt.Errorf("%w: tick_rate %d workers %d", ErrInvalidSim, s.TickRate, s.Workers)
	}

	def := DefaultSim()
	if s.TickRate == 0 {
		s.TickRate = def.TickRate
	}
	if s.Workers == 0 {
		s.Workers = def.Workers
	}
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	return s, nil
}

// Step returns the fixed time step in seconds.
func (s Sim) Step() float64 {
	return 1 / float64(s.TickRate)
}

// Tick returns the wall-clock interval between steps.
func (s Sim) Tick() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// LoadFile reads a YAML config from path. An empty path yields DefaultSim.
func LoadFile(path string) (Sim, error) {
	if path == "" {
		return DefaultSim(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Sim{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}
