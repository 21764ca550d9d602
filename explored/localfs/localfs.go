package localfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
	"xdao.co/classify/fingerprint"
)

// Registry is a local filesystem-backed explored set.
//
// Each marked class is an empty marker file named by the class fingerprint. Markers are created with O_EXCL, so several processes
// sharing one directory agree on which of them marked a class first.
type Registry struct {
	root string
	log  *zap.Logger
}

var _ explored.Registry = (*Registry)(nil)

type Option func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New constructs a registry rooted at root. The directory will be created if needed.
func New(root string, opts ...Option) (*Registry, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	r := &Registry{root: root, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

func (r *Registry) Mark(ctx context.Context, d classify.Digest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path := r.pathFor(d)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return false, err
	}
	r.log.Debug("marked class", zap.Stringer("digest", d), zap.String("path", path))
	return true, nil
}

func (r *Registry) Has(ctx context.Context, d classify.Digest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(r.pathFor(d))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

// List returns every marked class in ascending order. Files whose names are
// not fingerprints are logged and skipped.
func (r *Registry) List(ctx context.Context) ([]classify.Digest, error) {
	var out []classify.Digest
	err := filepath.WalkDir(r.root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() {
			return nil
		}
		d, perr := explored.ParseFingerprint(e.Name())
		if perr != nil {
			r.log.Warn("skipping foreign file", zap.String("path", path), zap.Error(perr))
			return nil
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return classify.Compare(out[i], out[j]) < 0 })
	return out, nil
}

// pathFor shards markers by the last two characters of the fingerprint;
// the leading characters are the same multibase and CID prefix for every class.
func (r *Registry) pathFor(d classify.Digest) string {
	s := fingerprint.String(d)
	if len(s) < 2 {
		return filepath.Join(r.root, s)
	}
	return filepath.Join(r.root, s[len(s)-2:], s)
}
