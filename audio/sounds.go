package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type Effect int

const (
	DoorOpen Effect = iota
	DoorClose
	Shot
	Click
)

func (e Effect) String() string {
	switch e {
	case DoorOpen:
		return "door_open"
	case DoorClose:
		return "door_close"
	case Shot:
		return "shot"
	case Click:
		return "click"
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// Sounds plays synthesized effects through one speaker mixer. Every method
// is a no-op until Initialize succeeds, so a machine without an audio device
// runs silently.
type Sounds struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

func NewSounds(volume float64) *Sounds {
	return &Sounds{mixer: &beep.Mixer{}, volume: volume}
}

func (s *Sounds) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

func (s *Sounds) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Sounds) Play(e Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	st := Stream(e, sampleRate, s.volume)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *Sounds) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	s.initialized = false
}

// Stream builds a fresh streamer for an effect.
func Stream(e Effect, rate beep.SampleRate, volume float64) beep.Streamer {
	switch e {
	case DoorOpen:
		return doorOpenSound(rate, volume)
	case DoorClose:
		return doorCloseSound(rate, volume)
	case Shot:
		return shotSound(rate, volume)
	case Click:
		return clickSound(rate, volume)
	}
	return nil
}
