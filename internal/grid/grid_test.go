package grid

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		dir      Direction
		expected Direction
	}{
		{Up, Down},
		{Down, Up},
		{Left, Right},
		{Right, Left},
	}

	for _, tt := range tests {
		got := tt.dir.Opposite()
		if got != tt.expected {
			t.Errorf("%v.Opposite() = %v, want %v", tt.dir, got, tt.expected)
		}
		if got.Opposite() != tt.dir {
			t.Errorf("%v.Opposite().Opposite() = %v, want %v", tt.dir, got.Opposite(), tt.dir)
		}
	}
}

func TestPositionTranslate(t *testing.T) {
	start := Position{X: 3, Y: 3}
	tests := []struct {
		dir      Direction
		expected Position
	}{
		{Up, Position{X: 3, Y: 4}},
		{Down, Position{X: 3, Y: 2}},
		{Left, Position{X: 2, Y: 3}},
		{Right, Position{X: 4, Y: 3}},
	}

	for _, tt := range tests {
		got := start.Translate(tt.dir)
		if got != tt.expected {
			t.Errorf("%v.Translate(%v) = %v, want %v", start, tt.dir, got, tt.expected)
		}
	}
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir      Direction
		expected string
	}{
		{Up, "up"},
		{Down, "down"},
		{Left, "left"},
		{Right, "right"},
		{Direction(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.expected {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.expected)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q) error: %v", d.String(), err)
		}
		if got != d {
			t.Errorf("ParseDirection(%q) = %v, want %v", d.String(), got, d)
		}
	}

	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection(\"sideways\") should fail")
	}
}

func TestDirectionJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Dir Direction `json:"dir"`
	}{Left})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `{"dir":"left"}` {
		t.Errorf("Marshal = %s, want %s", data, `{"dir":"left"}`)
	}

	var decoded struct {
		Dir Direction `json:"dir"`
	}
	if err := json.Unmarshal([]byte(`{"dir":"right"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded.Dir != Right {
		t.Errorf("Unmarshal dir = %v, want %v", decoded.Dir, Right)
	}
}

func TestArenaContains(t *testing.T) {
	arena := NewArena(DefaultWidth, DefaultHeight)
	tests := []struct {
		pos      Position
		expected bool
	}{
		{Position{X: 0, Y: 0}, true},
		{Position{X: 9, Y: 9}, true},
		{Position{X: 9, Y: 5}, true},
		{Position{X: 10, Y: 5}, false},
		{Position{X: -1, Y: 5}, false},
		{Position{X: 5, Y: 10}, false},
		{Position{X: 5, Y: -1}, false},
	}

	for _, tt := range tests {
		if got := arena.Contains(tt.pos); got != tt.expected {
			t.Errorf("Contains(%v) = %v, want %v", tt.pos, got, tt.expected)
		}
	}
}

func TestArenaRandomCell(t *testing.T) {
	arena := NewArena(4, 3)
	rng := rand.New(rand.NewSource(12345))
	seen := make(map[Position]bool)

	for i := 0; i < 500; i++ {
		p := arena.RandomCell(rng)
		if !arena.Contains(p) {
			t.Fatalf("RandomCell() = %v, outside %dx%d arena", p, arena.Width, arena.Height)
		}
		seen[p] = true
	}

	if len(seen) != arena.Cells() {
		t.Errorf("RandomCell() covered %d cells, want %d", len(seen), arena.Cells())
	}
}
