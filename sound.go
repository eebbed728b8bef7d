package main

import (
	"gridcaster/audio"
	"gridcaster/engine"
)

type effectPlayer interface {
	Play(audio.Effect)
}

// cues maps world events onto sound effects. A nil *cues is silent.
type cues struct {
	out effectPlayer
}

func newCues(out effectPlayer) *cues {
	return &cues{out: out}
}

func (c *cues) play(e audio.Effect) {
	if c == nil || c.out == nil {
		return
	}
	c.out.Play(e)
}

// door plays the sound for a door that has just started moving.
func (c *cues) door(s engine.DoorState) {
	switch s {
	case engine.DoorOpening:
		c.play(audio.DoorOpen)
	case engine.DoorClosing:
		c.play(audio.DoorClose)
	}
}

func (c *cues) shot() {
	c.play(audio.Shot)
}

func (c *cues) click() {
	c.play(audio.Click)
}
