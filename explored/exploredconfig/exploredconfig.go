package exploredconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"xdao.co/classify/explored"
	"xdao.co/classify/explored/backends"
)

// Config describes how to open one or more registry backends via the
// backends package. Callers still need to link the backend plugins they
// want via blank imports.
//
// Example:
//
//	write_policy: all
//	backends:
//	  - name: memory
//	    config:
//	      memory-size: "100000"
//	  - name: localfs
//	    id: shared
//	    config:
//	      localfs-dir: /var/lib/explored
//
// JSON documents are accepted too. Config values are backend-specific and
// mirror the backend's flag names.
type Config struct {
	WritePolicy string          `yaml:"write_policy,omitempty"`
	Backends    []BackendConfig `yaml:"backends"`
}

type BackendConfig struct {
	// Name is the backend to open (e.g. "memory", "localfs", "grpc").
	Name string `yaml:"name"`
	// ID is an optional stable alias used in error messages. If empty, Name is used.
	ID     string            `yaml:"id,omitempty"`
	Config map[string]string `yaml:"config,omitempty"`
}

func (b BackendConfig) id() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("exploredconfig: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes and validates a config document. Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("exploredconfig: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("exploredconfig: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("exploredconfig: backend name is required")
		}
		if _, ok := seen[b.id()]; ok {
			return fmt.Errorf("exploredconfig: duplicate backend id %q", b.id())
		}
		seen[b.id()] = struct{}{}
	}
	if _, err := explored.ParseWritePolicy(c.WritePolicy); err != nil {
		return fmt.Errorf("exploredconfig: invalid write_policy %q", c.WritePolicy)
	}
	return nil
}

// Open opens a registry per config.
//
// If preferredBackend is non-empty, backends are reordered so it is first,
// and thus decides freshness and receives marks under the "first" policy.
func (c Config) Open(usage backends.Usage, preferredBackend string) (explored.Registry, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	policy, _ := explored.ParseWritePolicy(c.WritePolicy)

	ordered := append([]BackendConfig(nil), c.Backends...)
	if preferredBackend != "" {
		idx := -1
		for i := range ordered {
			if ordered[i].Name == preferredBackend || ordered[i].ID == preferredBackend {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, fmt.Errorf("exploredconfig: preferred backend %q not found in config", preferredBackend)
		}
		if idx != 0 {
			b := ordered[idx]
			copy(ordered[1:idx+1], ordered[0:idx])
			ordered[0] = b
		}
	}

	named := make([]explored.Named, 0, len(ordered))
	closers := make([]func() error, 0, len(ordered))
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	for _, b := range ordered {
		r, closeFn, err := backends.OpenWithConfig(b.Name, usage, b.Config)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("exploredconfig: backend %q: %w", b.id(), err)
		}
		named = append(named, explored.Named{Name: b.id(), Registry: r})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(named) == 1 {
		return named[0].Registry, closeAll, nil
	}
	return explored.Multi{Backends: named, Policy: policy}, closeAll, nil
}
