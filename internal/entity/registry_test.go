package entity

import (
	"testing"

	"github.com/chungwong/snakey/internal/grid"
)

var bodyOffset = grid.Position{X: 0, Y: -1}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	if r.Len() != 0 || r.FoodCount() != 0 {
		t.Errorf("NewRegistry() Len() = %d, FoodCount() = %d, want 0, 0", r.Len(), r.FoodCount())
	}
	if _, ok := r.Head(); ok {
		t.Error("NewRegistry() should have no head before Reset")
	}

	// Each registry owns its world.
	other := NewRegistry()
	r.Reset(grid.Position{X: 3, Y: 3}, grid.Position{X: 0, Y: -1}, grid.Up)
	food := other.SpawnFood(grid.Position{X: 1, Y: 1})
	if other.Len() != 0 || other.FoodCount() != 1 || r.FoodCount() != 0 {
		t.Errorf("registries share state: other Len() = %d, FoodCount() = %d", other.Len(), other.FoodCount())
	}
	if !other.Alive(food) {
		t.Error("SpawnFood() entity should be alive in its own registry")
	}
}

func TestRegistryReset(t *testing.T) {
	r := NewRegistry()
	segments := r.Reset(grid.DefaultPosition, bodyOffset, grid.Up)

	if len(segments) != 2 {
		t.Fatalf("Reset() returned %d segments, want 2", len(segments))
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	head, ok := r.Head()
	if !ok {
		t.Fatal("Head() should exist after Reset")
	}
	if head != segments[0] {
		t.Error("Head() should be the first segment")
	}

	if pos, _ := r.Position(segments[0]); pos != (grid.Position{X: 3, Y: 3}) {
		t.Errorf("head position = %v, want (3,3)", pos)
	}
	if pos, _ := r.Position(segments[1]); pos != (grid.Position{X: 3, Y: 2}) {
		t.Errorf("body position = %v, want (3,2)", pos)
	}
	if dir, _ := r.Direction(); dir != grid.Up {
		t.Errorf("Direction() = %v, want %v", dir, grid.Up)
	}

	if size, _ := r.Size(segments[0]); size != Square(HeadSize) {
		t.Errorf("head size = %v, want %v", size, Square(HeadSize))
	}
	if size, _ := r.Size(segments[1]); size != Square(BodySize) {
		t.Errorf("body size = %v, want %v", size, Square(BodySize))
	}
}

func TestRegistryResetDiscardsEverything(t *testing.T) {
	r := NewRegistry()
	first := r.Reset(grid.DefaultPosition, bodyOffset, grid.Up)
	r.AppendSegment(grid.Position{X: 3, Y: 1})
	food := r.SpawnFood(grid.Position{X: 5, Y: 5})
	r.SetDirection(grid.Left)

	second := r.Reset(grid.DefaultPosition, bodyOffset, grid.Up)

	if len(second) != 2 {
		t.Fatalf("Reset() returned %d segments, want 2", len(second))
	}
	for _, e := range first {
		if r.Alive(e) {
			t.Error("segments from the previous game should be gone")
		}
	}
	if r.Alive(food) {
		t.Error("food from the previous game should be gone")
	}
	if r.FoodCount() != 0 {
		t.Errorf("FoodCount() = %d, want 0", r.FoodCount())
	}
	if dir, _ := r.Direction(); dir != grid.Up {
		t.Errorf("Direction() after Reset = %v, want %v", dir, grid.Up)
	}
}

func TestRegistryAppendSegment(t *testing.T) {
	r := NewRegistry()
	r.Reset(grid.DefaultPosition, bodyOffset, grid.Up)

	for i := 1; i <= 3; i++ {
		tail := grid.Position{X: 3, Y: 2 - i}
		e := r.AppendSegment(tail)

		if r.Len() != 2+i {
			t.Errorf("Len() after %d appends = %d, want %d", i, r.Len(), 2+i)
		}
		segments := r.Segments()
		if segments[len(segments)-1] != e {
			t.Error("AppendSegment() should append to the end of the sequence")
		}
		if pos, _ := r.Position(e); pos != tail {
			t.Errorf("appended position = %v, want %v", pos, tail)
		}
	}
}

func TestRegistryDespawnFood(t *testing.T) {
	r := NewRegistry()
	r.Reset(grid.DefaultPosition, bodyOffset, grid.Up)

	a := r.SpawnFood(grid.Position{X: 1, Y: 1})
	b := r.SpawnFood(grid.Position{X: 1, Y: 1})
	if r.FoodCount() != 2 {
		t.Fatalf("FoodCount() = %d, want 2", r.FoodCount())
	}

	r.DespawnFood(a)
	if r.FoodCount() != 1 {
		t.Errorf("FoodCount() after despawn = %d, want 1", r.FoodCount())
	}

	// Already consumed: must not panic or touch anything else.
	r.DespawnFood(a)
	if r.FoodCount() != 1 {
		t.Errorf("FoodCount() after double despawn = %d, want 1", r.FoodCount())
	}

	// Segments are not food.
	head, _ := r.Head()
	r.DespawnFood(head)
	if !r.Alive(head) {
		t.Error("DespawnFood() must not remove snake segments")
	}

	foods := r.Foods()
	if len(foods) != 1 || foods[0].ID != b {
		t.Errorf("Foods() = %v, want only the second food", foods)
	}
}

func TestRegistryDespawnAll(t *testing.T) {
	r := NewRegistry()
	r.Reset(grid.DefaultPosition, bodyOffset, grid.Up)
	r.SpawnFood(grid.Position{X: 7, Y: 7})

	r.DespawnAllBodiesAndFood()

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if r.FoodCount() != 0 {
		t.Errorf("FoodCount() = %d, want 0", r.FoodCount())
	}
	if _, ok := r.Head(); ok {
		t.Error("Head() should not exist after DespawnAllBodiesAndFood")
	}
	if r.SetDirection(grid.Left) {
		t.Error("SetDirection() should report false without a head")
	}
}

func TestRegistrySegmentPositions(t *testing.T) {
	r := NewRegistry()
	r.Reset(grid.Position{X: 5, Y: 5}, grid.Position{X: -1, Y: 0}, grid.Right)
	r.AppendSegment(grid.Position{X: 3, Y: 5})

	got := r.SegmentPositions()
	want := []grid.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
	if len(got) != len(want) {
		t.Fatalf("SegmentPositions() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SegmentPositions()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
