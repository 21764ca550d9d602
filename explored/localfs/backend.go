package localfs

import (
	"fmt"

	"github.com/spf13/pflag"

	"xdao.co/classify/explored"
	"xdao.co/classify/explored/backends"
)

var flagDir string

func init() {
	backends.MustRegister(backends.Backend{
		Name:        "localfs",
		Description: "Local filesystem explored set (marker files, shareable between processes)",
		Usage:       backends.UsageCLI | backends.UsageDaemon,
		RegisterFlags: func(fs *pflag.FlagSet) {
			fs.StringVar(&flagDir, "localfs-dir", "", "Marker directory (for --backend=localfs)")
		},
		Open: func() (explored.Registry, func() error, error) {
			if flagDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			r, err := New(flagDir, WithLogger(backends.Logger()))
			if err != nil {
				return nil, nil, err
			}
			return r, nil, nil
		},
	})
}
