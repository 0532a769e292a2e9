package clock

// MaxBurst caps the ticks a single Due call reports. A host that stalled
// for longer drops the backlog instead of racing to catch up.
const MaxBurst = 64

// Pacer converts elapsed wall clock time into a number of ticks at a fixed
// rate. Fractions of a period carry over between calls so the long term
// rate is exact regardless of how often Due is polled.
type Pacer struct {
	src    Source
	period int64 // nanoseconds per tick
	last   int64 // timestamp of the previous poll
	owed   int64 // nanoseconds not yet converted into ticks
}

// NewPacer returns a pacer ticking hz times per second, starting now.
func NewPacer(src Source, hz int) *Pacer {
	if hz <= 0 {
		hz = 1
	}
	return &Pacer{
		src:    src,
		period: 1000000000 / int64(hz),
		last:   src.Now(),
	}
}

// Due returns how many ticks became due since the previous call.
func (p *Pacer) Due() int {
	now := p.src.Now()
	p.owed += p.src.Between(p.last, now)
	p.last = now

	n := p.owed / p.period
	if n > MaxBurst {
		p.owed = 0
		return MaxBurst
	}
	p.owed -= n * p.period
	return int(n)
}

// Remaining returns the nanoseconds until the next tick is due, as of the
// previous call to Due.
func (p *Pacer) Remaining() int64 {
	return p.period - p.owed
}

// Reset discards accumulated time and restarts the pacer from now.
func (p *Pacer) Reset() {
	p.last = p.src.Now()
	p.owed = 0
}
