package clone

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/scene"
)

// Engine duplicates selected objects while preserving attachment topology.
// All spawning goes through the owning world; the engine never decides what
// gets selected afterwards.
type Engine struct {
	log   *logrus.Logger
	world *scene.World
}

// NewEngine returns a clone engine for the given world.
func NewEngine(log *logrus.Logger, world *scene.World) *Engine {
	return &Engine{log: log, world: world}
}

// Result is the outcome of a part-cloning pass. All holds every created
// clone; Topmost holds only clones whose original parent was not itself
// cloned, the set that is safe to auto-select without selecting both a
// parent and its child.
type Result struct {
	All     []*scene.Part
	Topmost []*scene.Part
}

// CloneActors duplicates the owning aggregate of every part in the list,
// collapsing duplicates, and returns the root parts of the new actors. The
// clones spawn at the default pose and still need FinishSpawn before they
// may be referenced on the wire.
func (e *Engine) CloneActors(parts []*scene.Part) []*scene.Part {
	seen := make(map[*scene.Actor]bool)
	var out []*scene.Part
	for _, p := range parts {
		if p == nil || !p.Valid() {
			continue
		}
		owner := p.Owner()
		if owner == nil || seen[owner] {
			continue
		}
		seen[owner] = true

		if clone := e.world.DuplicateActor(owner); clone != nil {
			out = append(out, clone.Root())
		}
	}
	return out
}

// CloneParts duplicates the individual parts in the list, preserving each
// part's transform relative to its original parent, then reattaches the
// clones: to the clone of the original parent where one exists, to the
// original root directly for clones of the root itself (never to the root's
// own clone), and otherwise to the clone of the nearest cloned ancestor,
// falling back to the original root. Source hierarchies are acyclic, so the
// ancestor walk terminates and no clone ends up its own ancestor.
func (e *Engine) CloneParts(parts []*scene.Part) Result {
	// original -> clone, and clone -> original parent.
	ocCc := orderedmap.NewOrderedMap[*scene.Part, *scene.Part]()
	ccOp := orderedmap.NewOrderedMap[*scene.Part, *scene.Part]()

	var res Result
	for _, p := range parts {
		if p == nil || !p.Valid() || p.Owner() == nil {
			continue
		}
		if _, done := ocCc.Get(p); done {
			continue
		}
		clone := e.world.DuplicatePart(p)
		if clone == nil {
			continue
		}
		res.All = append(res.All, clone)
		ocCc.Set(p, clone)
		if p.IsRoot() {
			// A clone of the root keeps the original root as its
			// parent entry; mapping it through ocCc would attach
			// it to its own clone.
			ccOp.Set(clone, p)
		} else {
			ccOp.Set(clone, p.Parent())
		}
	}

	cloneSet := make(map[*scene.Part]bool, len(res.All))
	for _, c := range res.All {
		cloneSet[c] = true
	}

	for el := ccOp.Front(); el != nil; el = el.Next() {
		c, origParent := el.Key, el.Value
		parent := origParent

		if cp, ok := ocCc.Get(origParent); ok {
			if cp != c {
				parent = cp
			}
		} else {
			parent = e.nearestClonedAncestor(origParent, ocCc)
			if parent == nil {
				parent = c.Owner().Root()
			}
		}
		c.AttachTo(parent, true)

		if !cloneSet[parent] {
			res.Topmost = append(res.Topmost, c)
		}
	}
	return res
}

// nearestClonedAncestor walks up from the (not cloned) original parent
// looking for an ancestor that was cloned, returning its clone or nil.
func (e *Engine) nearestClonedAncestor(from *scene.Part, ocCc *orderedmap.OrderedMap[*scene.Part, *scene.Part]) *scene.Part {
	for anc := from.Parent(); anc != nil; anc = anc.Parent() {
		if cp, ok := ocCc.Get(anc); ok {
			return cp
		}
	}
	return nil
}
