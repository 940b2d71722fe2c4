package domaintest

import (
	"sync"

	"github.com/voxmesh/rtc-token-service/internal/domain"
)

// FakeRandomSource is a deterministic random source for tests.
// It returns queued values in order, repeating the last value once the
// queue is exhausted, so token bytes are fully reproducible.
type FakeRandomSource struct {
	mu     sync.Mutex
	values []uint32
	next   int
}

// NewFakeRandomSource creates a FakeRandomSource that yields the given values.
func NewFakeRandomSource(values ...uint32) *FakeRandomSource {
	if len(values) == 0 {
		values = []uint32{0}
	}
	return &FakeRandomSource{values: values}
}

// Uint32 returns the next queued value.
func (r *FakeRandomSource) Uint32() (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.values[r.next]
	if r.next < len(r.values)-1 {
		r.next++
	}
	return v, nil
}

// Ensure FakeRandomSource implements domain.RandomSource at compile time.
var _ domain.RandomSource = (*FakeRandomSource)(nil)
