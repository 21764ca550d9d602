package backends

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"xdao.co/classify/explored"
)

// Backend is a build-time plugin that can open an explored.Registry.
//
// Backends typically register themselves in init():
//
//	backends.MustRegister(backends.Backend{ ... })
type Backend struct {
	Name        string
	Description string
	Usage       Usage

	// RegisterFlags adds backend-specific flags to fs.
	RegisterFlags func(fs *pflag.FlagSet)

	// Open constructs the registry from the values parsed into the flags
	// RegisterFlags added. It returns an optional close function.
	Open func() (explored.Registry, func() error, error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Backend{}

	// openMu serializes OpenWithConfig, which rebinds backend flag variables.
	openMu sync.Mutex

	logger atomic.Pointer[zap.Logger]
)

// SetLogger sets the logger handed to backends that log. nil restores the
// default, which discards everything.
func SetLogger(l *zap.Logger) { logger.Store(l) }

// Logger returns the logger set by SetLogger.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Register registers a backend.
func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("backends: backend name is required")
	}
	if b.RegisterFlags == nil {
		return fmt.Errorf("backends: backend %q missing RegisterFlags", b.Name)
	}
	if b.Open == nil {
		return fmt.Errorf("backends: backend %q missing Open", b.Name)
	}
	if b.Usage == 0 {
		return fmt.Errorf("backends: backend %q missing Usage", b.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[b.Name]; exists {
		return fmt.Errorf("backends: backend %q already registered", b.Name)
	}
	registry[b.Name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns backends matching usage, sorted by name.
func List(usage Usage) []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(registry))
	for _, b := range registry {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns backend names matching usage, sorted.
func Names(usage Usage) []string {
	bs := List(usage)
	n := make([]string, 0, len(bs))
	for _, b := range bs {
		n = append(n, b.Name)
	}
	return n
}

// RegisterFlags registers flags for all backends matching usage, so one
// parse pass accepts every backend's flags.
func RegisterFlags(fs *pflag.FlagSet, usage Usage) {
	for _, b := range List(usage) {
		b.RegisterFlags(fs)
	}
}

func lookup(name string, usage Usage) (Backend, error) {
	mu.RLock()
	b, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Backend{}, fmt.Errorf("unknown backend %q", name)
	}
	if !b.Usage.allows(usage) {
		return Backend{}, fmt.Errorf("backend %q not supported in this binary", name)
	}
	return b, nil
}

// Open opens the named backend with the flag values already parsed.
func Open(name string, usage Usage) (explored.Registry, func() error, error) {
	b, err := lookup(name, usage)
	if err != nil {
		return nil, nil, err
	}
	return b.Open()
}

// OpenWithConfig opens the named backend with flags set from cfg instead of
// the command line. Keys are flag names without the leading dashes.
func OpenWithConfig(name string, usage Usage, cfg map[string]string) (explored.Registry, func() error, error) {
	b, err := lookup(name, usage)
	if err != nil {
		return nil, nil, err
	}

	openMu.Lock()
	defer openMu.Unlock()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	b.RegisterFlags(fs)
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fs.Lookup(k) == nil {
			return nil, nil, fmt.Errorf("backend %q: unknown config key %q", name, k)
		}
		if err := fs.Set(k, cfg[k]); err != nil {
			return nil, nil, fmt.Errorf("backend %q: config key %q: %w", name, k, err)
		}
	}
	return b.Open()
}
