package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is a sine oscillator with a short fade in and out
type tone struct {
	rate     beep.SampleRate
	freq     float64
	volume   float64
	pos      int
	total    int
	fade     int
	harmonic bool
}

func newTone(rate beep.SampleRate, freq float64, d time.Duration, volume float64) *tone {
	total := rate.N(d)
	return &tone{
		rate:   rate,
		freq:   freq,
		volume: volume,
		total:  total,
		fade:   min(rate.N(10*time.Millisecond), total/2),
	}
}

// newBuzz is a low tone with added harmonics
func newBuzz(rate beep.SampleRate, freq float64, d time.Duration, volume float64) *tone {
	t := newTone(rate, freq, d, volume)
	t.harmonic = true
	return t
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		at := float64(t.pos) / float64(t.rate)

		v := math.Sin(2 * math.Pi * t.freq * at)
		if t.harmonic {
			v = 0.6*v + 0.3*math.Sin(4*math.Pi*t.freq*at) + 0.1*math.Sin(6*math.Pi*t.freq*at)
		}

		env := 1.0
		if t.fade > 0 {
			if t.pos < t.fade {
				env = float64(t.pos) / float64(t.fade)
			} else if rem := t.total - t.pos; rem < t.fade {
				env = float64(rem) / float64(t.fade)
			}
		}

		v *= env * t.volume
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// chirp glides from one frequency to another
type chirp struct {
	rate     beep.SampleRate
	from, to float64
	volume   float64
	pos      int
	total    int
	phase    float64
}

func newChirp(rate beep.SampleRate, from, to float64, d time.Duration, volume float64) *chirp {
	return &chirp{rate: rate, from: from, to: to, volume: volume, total: rate.N(d)}
}

func (c *chirp) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.pos >= c.total {
			return i, i > 0
		}
		progress := float64(c.pos) / float64(c.total)
		freq := c.from + (c.to-c.from)*progress
		c.phase += freq / float64(c.rate)
		c.phase -= math.Floor(c.phase)

		v := math.Sin(2*math.Pi*c.phase) * c.volume * (1 - progress*0.5)
		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return len(samples), true
}

func (c *chirp) Err() error { return nil }
