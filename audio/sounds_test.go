package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) (samples int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		samples += n
		if !ok || n == 0 {
			return samples, peak
		}
	}
}

func TestEffectsAreFiniteAndAudible(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, e := range []Effect{DoorOpen, DoorClose, Shot, Click} {
		n, peak := drain(Stream(e, rate, 1))
		if n == 0 {
			t.Errorf("%v: no samples", e)
		}
		if n > rate.N(2*time.Second) {
			t.Errorf("%v: %d samples, effect never ends", e, n)
		}
		if peak == 0 {
			t.Errorf("%v: silent", e)
		}
	}
	if Stream(Effect(42), rate, 1) != nil {
		t.Fatalf("unknown effect produced a stream")
	}
}

func TestEnvelopeRampsAndEnds(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(0, 0, time.Second, WaveSquare, rate)
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, 200)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("envelope passed %d samples, want 100", n)
	}
	if buf[0][0] != 0 {
		t.Fatalf("first sample %v, want silent attack start", buf[0][0])
	}
	if buf[50][0] != 1 {
		t.Fatalf("sustain sample %v, want 1", buf[50][0])
	}
	if buf[99][0] <= 0 || buf[99][0] >= 1 {
		t.Fatalf("release sample %v should be fading", buf[99][0])
	}
}

func TestSilentWithoutDevice(t *testing.T) {
	s := NewSounds(1)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("uninitialized sounds panicked: %v", r)
		}
	}()
	s.Play(DoorOpen)
	s.Close()
	if s.Enabled() {
		t.Fatalf("enabled without Initialize")
	}
}
