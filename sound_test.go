package main

import (
	"testing"

	"gridcaster/audio"
	"gridcaster/engine"
)

type recorder struct {
	played []audio.Effect
}

func (r *recorder) Play(e audio.Effect) {
	r.played = append(r.played, e)
}

func TestDoorCues(t *testing.T) {
	rec := &recorder{}
	c := newCues(rec)
	c.door(engine.DoorOpening)
	c.door(engine.DoorOpen)
	c.door(engine.DoorClosing)
	c.shot()

	want := []audio.Effect{audio.DoorOpen, audio.DoorClose, audio.Shot}
	if len(rec.played) != len(want) {
		t.Fatalf("played %v, want %v", rec.played, want)
	}
	for i := range want {
		if rec.played[i] != want[i] {
			t.Fatalf("played %v, want %v", rec.played, want)
		}
	}
}

func TestNilCuesAreSilent(t *testing.T) {
	var c *cues
	c.door(engine.DoorOpening)
	c.shot()
	c.click()
}
