package credstore

import (
	"context"
	"errors"
)

// ErrStoreUnavailable is returned when the backing storage cannot be reached.
var ErrStoreUnavailable = errors.New("credential store unavailable")

// Pair is the credential pair owned by a [Store]. Either field may be empty;
// an empty Refresh means the session cannot be silently renewed.
type Pair struct {
	Access  string
	Refresh string
}

// IsZero reports whether neither credential is present.
func (p Pair) IsZero() bool {
	return p.Access == "" && p.Refresh == ""
}

// Store holds the current credential pair. Implementations must be safe for
// concurrent use. Clear is idempotent: clearing an empty store succeeds.
type Store interface {
	Get(ctx context.Context) (Pair, error)
	Set(ctx context.Context, pair Pair) error
	Clear(ctx context.Context) error
}
