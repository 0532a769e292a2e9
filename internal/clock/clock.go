// Package clock provides the wall clock pacing that drives the instruction
// and timer clocks of the machine.
package clock

// TimerFrequency is the fixed rate of the delay and sound timers in Hz.
const TimerFrequency = 60

// Source is a monotonic time source. Timestamps are opaque; Between converts
// the distance between two of them into nanoseconds.
type Source interface {
	Now() int64
	Between(start, end int64) int64
}

// System is the host's high resolution clock.
var System Source = systemClock{}

type systemClock struct{}

func (systemClock) Now() int64 {
	return getTimer()
}

func (systemClock) Between(start, end int64) int64 {
	return timerBetween(start, end)
}
