package term

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

type fakeTimer struct {
	fire    func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

type fakeKeypad struct {
	keys   [16]bool
	timers []*fakeTimer
}

func (f *fakeKeypad) holder() *holder {
	return newHolder(
		func(key byte, pressed bool) { f.keys[key] = pressed },
		time.Second,
		func(_ time.Duration, fire func()) stopper {
			timer := &fakeTimer{fire: fire}
			f.timers = append(f.timers, timer)
			return timer
		},
	)
}

func TestHolderReleasesAfterHold(t *testing.T) {
	f := &fakeKeypad{}
	h := f.holder()

	h.press(0xA)
	assert.True(t, f.keys[0xA])
	assert.Equal(t, 1, len(f.timers))

	f.timers[0].fire()
	assert.False(t, f.keys[0xA])
}

func TestHolderRepeatExtendsHold(t *testing.T) {
	f := &fakeKeypad{}
	h := f.holder()

	h.press(0x3)
	h.press(0x3)
	assert.Equal(t, 2, len(f.timers))
	assert.True(t, f.timers[0].stopped)
	assert.False(t, f.timers[1].stopped)
	assert.True(t, f.keys[0x3])
}

func TestHolderIgnoresStaleRelease(t *testing.T) {
	f := &fakeKeypad{}
	h := f.holder()

	h.press(0x5)
	h.press(0x5)
	// the first timer fires although it was stopped
	f.timers[0].fire()
	assert.True(t, f.keys[0x5])

	f.timers[1].fire()
	assert.False(t, f.keys[0x5])
}

func TestHolderReleaseAfterReleaseAll(t *testing.T) {
	f := &fakeKeypad{}
	h := f.holder()

	h.press(0x7)
	h.releaseAll()
	f.keys[0x7] = true
	f.timers[0].fire()
	assert.True(t, f.keys[0x7])
}

func TestHolderReleaseAll(t *testing.T) {
	f := &fakeKeypad{}
	h := f.holder()

	h.press(0x1)
	h.press(0x2)
	h.releaseAll()
	assert.True(t, f.timers[0].stopped)
	assert.True(t, f.timers[1].stopped)
	assert.False(t, f.keys[0x1])
	assert.False(t, f.keys[0x2])
}
