package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/slicectl/internal/slice"
)

// specFile is the on-disk form of a resource spec. lease_days is a
// shorthand for a lease starting at load time.
type specFile struct {
	slice.ResourceSpec `yaml:",inline"`
	LeaseDays          int `yaml:"lease_days,omitempty"`
}

// LoadSpec loads and validates a resource spec from a YAML file.
func LoadSpec(path string, now time.Time) (*slice.ResourceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	return LoadSpecFromBytes(data, now)
}

// LoadSpecFromBytes loads and validates a resource spec from YAML bytes.
// Unknown fields are rejected so typos do not silently drop settings.
func LoadSpecFromBytes(data []byte, now time.Time) (*slice.ResourceSpec, error) {
	spec, err := parseSpec(data, now)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// parseSpec parses YAML data into a ResourceSpec.
func parseSpec(data []byte, now time.Time) (*slice.ResourceSpec, error) {
	var f specFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, slice.Validation("parse spec", "spec file is empty")
		}
		return nil, slice.Validation("parse spec", err.Error())
	}

	spec := f.ResourceSpec
	switch {
	case f.LeaseDays < 0:
		return nil, slice.Validation("parse spec", "lease_days must be positive")
	case f.LeaseDays > 0 && spec.Lease != nil:
		return nil, slice.Validation("parse spec", "lease and lease_days are mutually exclusive")
	case f.LeaseDays > 0:
		spec.Lease = slice.LeaseFor(now, f.LeaseDays)
	}
	return &spec, nil
}
