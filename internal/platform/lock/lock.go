// Package lock provides the per-account critical sections used while posting.
package lock

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
)

// Release frees every key taken by one Acquire call. It is safe to call more than once.
type Release func()

// Locker serialises work keyed by account id.
type Locker interface {
	// Acquire takes all keys in ascending order and returns once every key is held.
	// If the keys cannot all be taken within the locker's timeout the keys already
	// held are released and an error wrapping apperrors.ErrLockTimeout is returned.
	Acquire(ctx context.Context, keys []string) (Release, error)
}

// normalizeKeys sorts keys and drops duplicates so that every caller takes
// locks in the same global order.
func normalizeKeys(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}

func timeoutError(key string, timeout time.Duration) error {
	return fmt.Errorf("%w: account %s not acquired within %s", apperrors.ErrLockTimeout, key, timeout)
}
