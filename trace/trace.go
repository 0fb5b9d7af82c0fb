package trace

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/transformlab/transformer/scene"
)

// Hit is one candidate object a ray passed through.
type Hit struct {
	Actor *scene.Actor
	Part  *scene.Part
}

// FilterSpec narrows what a trace may return. It travels on the wire with
// trace requests, so it is a plain value.
type FilterSpec struct {
	// Tag restricts hits to parts carrying this trace tag. Empty matches
	// every part.
	Tag string
}

// Matches reports whether the filter admits the given part.
func (f FilterSpec) Matches(p *scene.Part) bool {
	return f.Tag == "" || f.Tag == p.Tag()
}

// Tracer is the external ray-intersection collaborator. Implementations
// return candidate hits ordered near to far; the transformer core does all
// further filtering and interpretation.
type Tracer interface {
	Trace(start, end mgl32.Vec3, filter FilterSpec, ignore []*scene.Part) []Hit
}
