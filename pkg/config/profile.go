package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

// ParseProfile decodes a YAML (or JSON) lifestyle profile. Unknown keys
// are rejected so typos do not silently count as zero.
func ParseProfile(data []byte) (footprint.Profile, error) {
	var p footprint.Profile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return footprint.Profile{}, fmt.Errorf("decode profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return footprint.Profile{}, err
	}
	return p, nil
}

// LoadProfile reads a profile from path.
func LoadProfile(path string) (footprint.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return footprint.Profile{}, fmt.Errorf("read profile: %w", err)
	}

	p, err := ParseProfile(data)
	if err != nil {
		return footprint.Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
