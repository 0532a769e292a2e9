// Package audio produces the buzzer tone gated by the sound timer.
package audio

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

const (
	sampleRate = beep.SampleRate(44100)
	bufferSize = 1800
	toneHz     = 300

	// minimumBeep keeps very short sound timer pulses audible.
	minimumBeep = 100 * time.Millisecond
)

// Beeper plays a square tone while the sound timer is running.
type Beeper struct {
	beeping  bool
	prevbeep time.Time

	now   func() time.Time
	play  func() error
	clear func()
}

// NewBeeper initialises the speaker.
func NewBeeper() (*Beeper, error) {
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return nil, errors.Wrap(err, "initializing speaker")
	}
	return &Beeper{
		now:   time.Now,
		play:  playTone,
		clear: speaker.Clear,
	}, nil
}

func playTone() error {
	square, err := generators.SquareTone(sampleRate, toneHz)
	if err != nil {
		return errors.Wrap(err, "creating square tone")
	}
	volume := &effects.Volume{
		Streamer: square,
		Base:     2,
		Volume:   -3,
		Silent:   false,
	}
	speaker.Play(volume)
	return nil
}

// Update starts or stops the tone for the current sound timer value.
func (b *Beeper) Update(soundTimer byte) error {
	if soundTimer > 0 {
		return b.start()
	}
	b.stop()
	return nil
}

func (b *Beeper) start() error {
	if b.beeping {
		return nil
	}
	if err := b.play(); err != nil {
		return err
	}
	b.beeping = true
	b.prevbeep = b.now()
	return nil
}

func (b *Beeper) stop() {
	if b.beeping && b.now().Sub(b.prevbeep) > minimumBeep {
		b.clear()
		b.beeping = false
	}
}

// Close silences the tone immediately.
func (b *Beeper) Close() {
	if b.beeping {
		b.clear()
		b.beeping = false
	}
}
