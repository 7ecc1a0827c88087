package sim

import (
	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chungwong/snakey/internal/entity"
	"github.com/chungwong/snakey/internal/grid"
)

// Sprite is one live entity as seen by a renderer.
type Sprite struct {
	ID       uint32        `json:"id" msgpack:"id"`
	Kind     entity.Kind   `json:"kind" msgpack:"kind"`
	Position grid.Position `json:"pos" msgpack:"pos"`
	Size     entity.Size   `json:"size" msgpack:"size"`
}

// Snapshot is the renderable state of a session after a phase.
// Sprites list the snake head first, then the body in order, then food.
type Snapshot struct {
	SessionID string         `json:"sessionId" msgpack:"sessionId"`
	Tick      uint64         `json:"tick" msgpack:"tick"`
	Games     int            `json:"games" msgpack:"games"`
	Width     int            `json:"width" msgpack:"width"`
	Height    int            `json:"height" msgpack:"height"`
	Direction grid.Direction `json:"direction" msgpack:"direction"`
	Sprites   []Sprite       `json:"sprites" msgpack:"sprites"`
}

// Snapshot captures the current entities and their positions.
func (s *Session) Snapshot() Snapshot {
	reg := s.registry
	dir, _ := reg.Direction()

	snap := Snapshot{
		SessionID: s.id,
		Tick:      s.tick,
		Games:     s.games,
		Width:     s.arena.Width,
		Height:    s.arena.Height,
		Direction: dir,
		Sprites:   make([]Sprite, 0, reg.Len()+4),
	}

	for i, e := range reg.Segments() {
		pos, _ := reg.Position(e)
		size, _ := reg.Size(e)
		kind := entity.KindBody
		if i == 0 {
			kind = entity.KindHead
		}
		snap.Sprites = append(snap.Sprites, Sprite{ID: e.ID(), Kind: kind, Position: pos, Size: size})
	}

	for _, food := range reg.Foods() {
		size, _ := reg.Size(food.ID)
		snap.Sprites = append(snap.Sprites, Sprite{ID: food.ID.ID(), Kind: entity.KindFood, Position: food.Position, Size: size})
	}

	return snap
}

// Head returns the head sprite, or false if the snapshot has no snake.
func (snap Snapshot) Head() (Sprite, bool) {
	if len(snap.Sprites) == 0 || snap.Sprites[0].Kind != entity.KindHead {
		return Sprite{}, false
	}
	return snap.Sprites[0], true
}

// Count returns how many sprites of the given kind the snapshot holds.
func (snap Snapshot) Count(kind entity.Kind) int {
	n := 0
	for _, sp := range snap.Sprites {
		if sp.Kind == kind {
			n++
		}
	}
	return n
}

// Digest hashes everything but the session id, so two sessions fed the same
// seed and intents produce equal digests.
func (snap Snapshot) Digest() (uint64, error) {
	snap.SessionID = ""
	if len(snap.Sprites) == 0 {
		snap.Sprites = nil
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
