package engine

// Handle addresses a sprite in a SpriteArena. A handle goes stale once its
// sprite is removed, even if the slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) Valid() bool {
	return h.gen != 0
}

// Index is the slot number, stable for the sprite's lifetime.
func (h Handle) Index() int {
	return int(h.index)
}

type spriteSlot struct {
	gen    uint32
	alive  bool
	sprite Sprite
}

// SpriteArena owns the map's sprites.
type SpriteArena struct {
	slots []spriteSlot
	free  []uint32
	live  int
}

func NewSpriteArena() *SpriteArena {
	return &SpriteArena{}
}

func (a *SpriteArena) Insert(s Sprite) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, spriteSlot{})
		idx = uint32(len(a.slots) - 1)
	}
	slot := &a.slots[idx]
	slot.gen++
	slot.alive = true
	slot.sprite = s
	a.live++
	return Handle{index: idx, gen: slot.gen}
}

func (a *SpriteArena) Get(h Handle) *Sprite {
	if !a.valid(h) {
		return nil
	}
	return &a.slots[h.index].sprite
}

func (a *SpriteArena) Remove(h Handle) bool {
	if !a.valid(h) {
		return false
	}
	slot := &a.slots[h.index]
	slot.alive = false
	slot.sprite = Sprite{}
	a.free = append(a.free, h.index)
	a.live--
	return true
}

func (a *SpriteArena) Len() int {
	return a.live
}

// Each visits live sprites in slot order.
func (a *SpriteArena) Each(fn func(Handle, *Sprite)) {
	for i := range a.slots {
		slot := &a.slots[i]
		if slot.alive {
			fn(Handle{index: uint32(i), gen: slot.gen}, &slot.sprite)
		}
	}
}

func (a *SpriteArena) Handles() []Handle {
	out := make([]Handle, 0, a.live)
	a.Each(func(h Handle, _ *Sprite) {
		out = append(out, h)
	})
	return out
}

func (a *SpriteArena) valid(h Handle) bool {
	return h.gen != 0 && int(h.index) < len(a.slots) &&
		a.slots[h.index].alive && a.slots[h.index].gen == h.gen
}
