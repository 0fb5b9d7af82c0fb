package trace

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/transformlab/transformer/scene"
)

// WorldTracer is a segment-vs-bounds tracer over a scene world. Part bounds
// are treated as axis-aligned boxes centred on the part's world position,
// which is all the gizmo and selection tests need; a real integration plugs
// in its own Tracer instead.
type WorldTracer struct {
	world *scene.World
}

// NewWorldTracer returns a tracer over the given world.
func NewWorldTracer(world *scene.World) *WorldTracer {
	return &WorldTracer{world: world}
}

// Trace returns every part whose bounds the segment passes through, nearest
// first. Parts with empty bounds are not pickable.
func (t *WorldTracer) Trace(start, end mgl32.Vec3, filter FilterSpec, ignore []*scene.Part) []Hit {
	skip := make(map[*scene.Part]bool, len(ignore))
	for _, p := range ignore {
		skip[p] = true
	}

	type candidate struct {
		hit  Hit
		dist float32
	}
	var found []candidate

	t.world.Parts(func(p *scene.Part) bool {
		if skip[p] || !filter.Matches(p) {
			return true
		}
		b := p.Bounds()
		if b.Min() == b.Max() {
			return true
		}
		pos := p.WorldTransform().Translation
		dist, ok := segmentBoxEntry(start, end, b.Min().Add(pos), b.Max().Add(pos))
		if !ok {
			return true
		}
		found = append(found, candidate{
			hit:  Hit{Actor: p.Owner(), Part: p},
			dist: dist,
		})
		return true
	})

	sort.Slice(found, func(i, j int) bool { return found[i].dist < found[j].dist })

	hits := make([]Hit, 0, len(found))
	for _, c := range found {
		hits = append(hits, c.hit)
	}
	return hits
}

// segmentBoxEntry is a slab test returning the entry fraction of the
// segment through the box.
func segmentBoxEntry(start, end, min, max mgl32.Vec3) (float32, bool) {
	dir := end.Sub(start)
	tMin, tMax := float32(0), float32(1)
	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < 1e-9 {
			if start[i] < min[i] || start[i] > max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t0 := (min[i] - start[i]) * inv
		t1 := (max[i] - start[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math32.Max(tMin, t0)
		tMax = math32.Min(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
