package memory

import (
	"github.com/spf13/pflag"

	"xdao.co/classify/explored"
	"xdao.co/classify/explored/backends"
)

var flagSize int

func init() {
	backends.MustRegister(backends.Backend{
		Name:        "memory",
		Description: "In-process explored set (optionally LRU bounded)",
		Usage:       backends.UsageCLI | backends.UsageDaemon,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.IntVar(&flagSize, "memory-size", 0, "Maximum classes kept (for --backend=memory); 0 is unbounded")
		},
		Open: func() (explored.Registry, func() error, error) {
			if flagSize <= 0 {
				r := New()
				return r, r.Close, nil
			}
			r, err := NewBounded(flagSize)
			if err != nil {
				return nil, nil, err
			}
			return r, r.Close, nil
		},
	})
}
