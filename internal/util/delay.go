package util

import "math"

// DelayLine models a pure transport delay as a ring buffer of past
// input samples. The buffer is sized on the first Push call from the
// step size used by the caller, which therefore must stay constant
// for the lifetime of the line.
type DelayLine struct {
	delay float64

	buf []float64
	idx int
}

func NewDelayLine(delaySeconds float64) *DelayLine {
	return &DelayLine{
		delay: delaySeconds,
	}
}

// Push appends value to the line and returns the value delayed by the
// configured delay. While the line has not yet been filled (elapsed
// time < delay) the returned value is zero (cold start).
func (d *DelayLine) Push(value float64, dt float64) float64 {
	if d.delay <= 0 {
		return value
	}
	if d.buf == nil {
		steps := int(math.Round(d.delay / dt))
		if steps < 1 {
			steps = 1
		}
		d.buf = make([]float64, steps)
	}
	delayed := d.buf[d.idx]
	d.buf[d.idx] = value
	d.idx = (d.idx + 1) % len(d.buf)
	return delayed
}

// Reset discards all buffered samples.
func (d *DelayLine) Reset() {
	d.buf = nil
	d.idx = 0
}
