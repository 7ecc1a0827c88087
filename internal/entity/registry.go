package entity

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/chungwong/snakey/internal/grid"
)

// FoodItem is a live food entity and where it sits.
type FoodItem struct {
	ID       ecs.Entity
	Position grid.Position
}

// Registry owns every snake segment and food entity.
// The snake is kept as an ordered sequence: index 0 is the head, the last element is the tail.
type Registry struct {
	world *ecs.World

	heads  *ecs.Map4[grid.Position, Size, Segment, Head]
	bodies *ecs.Map3[grid.Position, Size, Segment]
	foods  *ecs.Map3[grid.Position, Size, Food]

	positions *ecs.Map[grid.Position]
	sizes     *ecs.Map[Size]
	headMap   *ecs.Map[Head]
	foodMap   *ecs.Map[Food]

	foodFilter    *ecs.Filter2[grid.Position, Food]
	segmentFilter *ecs.Filter1[Segment]

	segments []ecs.Entity
}

// NewRegistry creates an empty registry. Call Reset before the first tick.
func NewRegistry() *Registry {
	w := ecs.NewWorld()
	world := &w
	return &Registry{
		world:         world,
		heads:         ecs.NewMap4[grid.Position, Size, Segment, Head](world),
		bodies:        ecs.NewMap3[grid.Position, Size, Segment](world),
		foods:         ecs.NewMap3[grid.Position, Size, Food](world),
		positions:     ecs.NewMap[grid.Position](world),
		sizes:         ecs.NewMap[Size](world),
		headMap:       ecs.NewMap[Head](world),
		foodMap:       ecs.NewMap[Food](world),
		foodFilter:    ecs.NewFilter2[grid.Position, Food](world),
		segmentFilter: ecs.NewFilter1[Segment](world),
		segments:      make([]ecs.Entity, 0, 8),
	}
}

// Reset discards every segment and food entity, then creates a head at start facing dir
// and one body segment at start+bodyOffset. It returns the new ordered sequence.
func (r *Registry) Reset(start, bodyOffset grid.Position, dir grid.Direction) []ecs.Entity {
	r.DespawnAllBodiesAndFood()

	pos := start
	size := Square(HeadSize)
	head := r.heads.NewEntity(&pos, &size, &Segment{}, &Head{Direction: dir})

	r.segments = append(r.segments[:0], head)
	r.AppendSegment(start.Add(bodyOffset))

	return r.Segments()
}

// AppendSegment creates a trailing body segment at pos and appends it to the sequence.
func (r *Registry) AppendSegment(pos grid.Position) ecs.Entity {
	size := Square(BodySize)
	e := r.bodies.NewEntity(&pos, &size, &Segment{})
	r.segments = append(r.segments, e)
	return e
}

// SpawnFood creates a food entity at pos.
func (r *Registry) SpawnFood(pos grid.Position) ecs.Entity {
	size := Square(FoodSize)
	return r.foods.NewEntity(&pos, &size, &Food{})
}

// DespawnFood removes one food entity. Unknown or already removed ids are ignored.
func (r *Registry) DespawnFood(e ecs.Entity) {
	if !r.world.Alive(e) || !r.foodMap.Has(e) {
		return
	}
	r.world.RemoveEntity(e)
}

// DespawnAllBodiesAndFood removes every segment (head included) and every food entity.
func (r *Registry) DespawnAllBodiesAndFood() {
	doomed := make([]ecs.Entity, 0, len(r.segments)+8)

	foodQuery := r.foodFilter.Query()
	for foodQuery.Next() {
		doomed = append(doomed, foodQuery.Entity())
	}

	segmentQuery := r.segmentFilter.Query()
	for segmentQuery.Next() {
		doomed = append(doomed, segmentQuery.Entity())
	}

	// Structural changes are only allowed once the queries are exhausted.
	for _, e := range doomed {
		r.world.RemoveEntity(e)
	}
	r.segments = r.segments[:0]
}

// Segments returns a copy of the ordered segment sequence.
func (r *Registry) Segments() []ecs.Entity {
	out := make([]ecs.Entity, len(r.segments))
	copy(out, r.segments)
	return out
}

// Len returns the number of snake segments, head included.
func (r *Registry) Len() int {
	return len(r.segments)
}

// Head returns the head entity, or false if there is none.
func (r *Registry) Head() (ecs.Entity, bool) {
	if len(r.segments) == 0 {
		return ecs.Entity{}, false
	}
	head := r.segments[0]
	if !r.world.Alive(head) || !r.headMap.Has(head) {
		return ecs.Entity{}, false
	}
	return head, true
}

// Direction returns the head's heading, or false if there is no head.
func (r *Registry) Direction() (grid.Direction, bool) {
	head, ok := r.Head()
	if !ok {
		return grid.Up, false
	}
	return r.headMap.Get(head).Direction, true
}

// SetDirection changes the head's heading. It is a no-op without a head.
func (r *Registry) SetDirection(dir grid.Direction) bool {
	head, ok := r.Head()
	if !ok {
		return false
	}
	r.headMap.Get(head).Direction = dir
	return true
}

// Position returns the position of an entity.
func (r *Registry) Position(e ecs.Entity) (grid.Position, bool) {
	if !r.world.Alive(e) || !r.positions.Has(e) {
		return grid.Position{}, false
	}
	return *r.positions.Get(e), true
}

// SetPosition moves an entity. Dead entities are ignored.
func (r *Registry) SetPosition(e ecs.Entity, pos grid.Position) {
	if !r.world.Alive(e) || !r.positions.Has(e) {
		return
	}
	*r.positions.Get(e) = pos
}

// SegmentPositions returns the position of every segment in sequence order.
func (r *Registry) SegmentPositions() []grid.Position {
	out := make([]grid.Position, 0, len(r.segments))
	for _, e := range r.segments {
		pos, _ := r.Position(e)
		out = append(out, pos)
	}
	return out
}

// Size returns the logical size of an entity.
func (r *Registry) Size(e ecs.Entity) (Size, bool) {
	if !r.world.Alive(e) || !r.sizes.Has(e) {
		return Size{}, false
	}
	return *r.sizes.Get(e), true
}

// Foods returns every live food entity with its position.
func (r *Registry) Foods() []FoodItem {
	items := make([]FoodItem, 0)
	query := r.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		items = append(items, FoodItem{ID: query.Entity(), Position: *pos})
	}
	return items
}

// FoodCount returns the number of live food entities.
func (r *Registry) FoodCount() int {
	return len(r.Foods())
}

// Alive reports whether the entity still exists.
func (r *Registry) Alive(e ecs.Entity) bool {
	return r.world.Alive(e)
}
