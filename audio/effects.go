package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length tone. A non-zero sweep glides the
// frequency linearly to freq+sweep over the duration.
type oscillator struct {
	freq     float64
	sweep    float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func NewOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = -1
			if o.phase < 0.5 {
				val = 1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.sweep*float64(o.position)/float64(o.duration)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream with a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.position >= start && e.release > 0 {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is mapped to silence
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

const (
	doorDuration  = 900 * time.Millisecond
	thudDuration  = 120 * time.Millisecond
	shotDuration  = 180 * time.Millisecond
	clickDuration = 40 * time.Millisecond
)

// doorOpenSound is a rising grind.
func doorOpenSound(rate beep.SampleRate, vol float64) beep.Streamer {
	grind := NewOscillator(70, 50, doorDuration, WaveSaw, rate)
	noise := NewOscillator(0, 0, doorDuration, WaveNoise, rate)
	mixed := beep.Take(rate.N(doorDuration), beep.Mix(newVolume(grind, 0.6), newVolume(noise, 0.15)))
	return newVolume(NewEnvelope(mixed, doorDuration, 60*time.Millisecond, 200*time.Millisecond, rate), vol)
}

// doorCloseSound is a falling grind ending in a thud.
func doorCloseSound(rate beep.SampleRate, vol float64) beep.Streamer {
	grind := NewOscillator(120, -50, doorDuration, WaveSaw, rate)
	slide := NewEnvelope(newVolume(grind, 0.6), doorDuration, 60*time.Millisecond, 100*time.Millisecond, rate)
	thud := NewEnvelope(NewOscillator(55, -20, thudDuration, WaveSine, rate), thudDuration, 0, thudDuration, rate)
	return newVolume(beep.Seq(slide, thud), vol)
}

func shotSound(rate beep.SampleRate, vol float64) beep.Streamer {
	crack := NewEnvelope(NewOscillator(0, 0, shotDuration, WaveNoise, rate), shotDuration, 0, shotDuration-20*time.Millisecond, rate)
	boom := NewEnvelope(NewOscillator(140, -90, shotDuration, WaveSquare, rate), shotDuration, 0, shotDuration, rate)
	mixed := beep.Take(rate.N(shotDuration), beep.Mix(newVolume(crack, 0.7), newVolume(boom, 0.3)))
	return newVolume(mixed, vol)
}

func clickSound(rate beep.SampleRate, vol float64) beep.Streamer {
	return newVolume(NewEnvelope(NewOscillator(1200, 0, clickDuration, WaveSquare, rate), clickDuration, 0, clickDuration, rate), vol*0.5)
}
