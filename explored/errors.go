package explored

import (
	"errors"
	"fmt"

	"xdao.co/classify/classify"
	"xdao.co/classify/fingerprint"
)

var (
	ErrInvalidFingerprint = errors.New("explored: invalid fingerprint")
	ErrClosed             = errors.New("explored: registry closed")
	ErrNoBackends         = errors.New("explored: no backends")
)

func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }

// ParseFingerprint decodes a fingerprint string, reporting any failure as
// ErrInvalidFingerprint.
func ParseFingerprint(s string) (classify.Digest, error) {
	d, err := fingerprint.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	return d, nil
}
