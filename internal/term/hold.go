package term

import (
	"sync"
	"time"

	"octoc8/internal/chip8"
)

// holdTime covers the gap before a terminal starts repeating a held key.
const holdTime = 600 * time.Millisecond

type stopper interface {
	Stop() bool
}

// holder turns single key press events into pressed states that last for
// a while after the most recent press.
type holder struct {
	mu       sync.Mutex
	setKey   func(key byte, pressed bool)
	hold     time.Duration
	after    func(d time.Duration, f func()) stopper
	releases [chip8.KeyCount]stopper
	presses  [chip8.KeyCount]uint64 // generation of the latest press per key
}

func newHolder(setKey func(byte, bool), hold time.Duration, after func(time.Duration, func()) stopper) *holder {
	return &holder{
		setKey: setKey,
		hold:   hold,
		after:  after,
	}
}

func (h *holder) press(key byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r := h.releases[key]; r != nil {
		r.Stop()
	}
	h.presses[key]++
	generation := h.presses[key]
	h.setKey(key, true)
	h.releases[key] = h.after(h.hold, func() {
		h.release(key, generation)
	})
}

// release lifts key unless it was pressed again after the given press.
func (h *holder) release(key byte, generation uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.presses[key] != generation || h.releases[key] == nil {
		return
	}
	h.releases[key] = nil
	h.setKey(key, false)
}

func (h *holder) releaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, r := range h.releases {
		if r != nil {
			r.Stop()
			h.releases[key] = nil
			h.setKey(byte(key), false)
		}
	}
}

func afterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}
