package selection

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/scene"
)

// ChangeFunc observes membership changes. focusable reports whether the
// object carried a focus capability when the change happened.
type ChangeFunc func(part *scene.Part, selected bool, focusable bool)

// Set is the ordered set of currently selected parts. Membership is unique
// and insertion order is significant: the first and last entries decide
// where the gizmo is anchored. Entries whose underlying part has been
// destroyed are tombstones and are dropped whenever they are encountered.
type Set struct {
	log   *logrus.Logger
	world *scene.World

	parts *orderedmap.OrderedMap[uuid.UUID, *scene.Part]

	// Toggle makes re-selecting a present member in append mode deselect
	// it instead of being a no-op.
	Toggle bool
	// PartBased decides whether focus events target parts or their owning
	// actors.
	PartBased bool

	onChange ChangeFunc
}

// NewSet returns an empty selection set operating on the given world.
func NewSet(log *logrus.Logger, world *scene.World) *Set {
	return &Set{
		log:    log,
		world:  world,
		parts:  orderedmap.NewOrderedMap[uuid.UUID, *scene.Part](),
		Toggle: true,
	}
}

// OnChange registers the membership observer. Only one observer is held.
func (s *Set) OnChange(f ChangeFunc) {
	s.onChange = f
}

// Select adds part to the set. Without append the current selection is
// cleared first. Invalid parts are ignored.
func (s *Set) Select(part *scene.Part, append bool) {
	if part == nil || !part.Valid() {
		return
	}
	if !append {
		s.DeselectAll(false)
	}
	s.add(part)
}

// SelectMany adds every valid part in parts. Without append the current
// selection is cleared once, and only if the list contains at least one
// valid part.
func (s *Set) SelectMany(parts []*scene.Part, append bool) {
	for _, part := range parts {
		if part == nil || !part.Valid() {
			continue
		}
		if !append {
			s.DeselectAll(false)
			append = true
		}
		s.add(part)
	}
}

// Deselect removes part from the set, firing unfocus. Unknown or invalid
// parts are a no-op.
func (s *Set) Deselect(part *scene.Part) {
	if part == nil {
		return
	}
	if _, ok := s.parts.Get(part.ID()); !ok {
		return
	}
	s.remove(part)
}

// DeselectAll empties the set and returns the removed parts. With destroy
// set, each removed part is destroyed afterwards: a sub-part is destroyed on
// its own only when the owning aggregate keeps other parts, otherwise the
// whole aggregate goes.
func (s *Set) DeselectAll(destroy bool) []*scene.Part {
	removed := make([]*scene.Part, 0, s.parts.Len())
	for _, part := range s.Parts() {
		s.remove(part)
		removed = append(removed, part)
	}
	s.parts = orderedmap.NewOrderedMap[uuid.UUID, *scene.Part]()

	if destroy {
		for _, part := range removed {
			if !part.Valid() {
				continue
			}
			owner := part.Owner()
			if owner == nil {
				s.world.DestroyPart(part)
				continue
			}
			if s.PartBased && len(owner.Parts()) > 1 && !part.IsRoot() {
				s.world.DestroyPart(part)
			} else {
				s.world.DestroyActor(owner)
			}
		}
	}
	return removed
}

// Parts returns the live members in insertion order, pruning tombstones as
// it goes.
func (s *Set) Parts() []*scene.Part {
	out := make([]*scene.Part, 0, s.parts.Len())
	var dead []uuid.UUID
	for el := s.parts.Front(); el != nil; el = el.Next() {
		if !el.Value.Valid() {
			dead = append(dead, el.Key)
			continue
		}
		out = append(out, el.Value)
	}
	for _, id := range dead {
		s.parts.Delete(id)
	}
	return out
}

// First returns the oldest live member, or nil.
func (s *Set) First() *scene.Part {
	parts := s.Parts()
	if len(parts) == 0 {
		return nil
	}
	return parts[0]
}

// Last returns the newest live member, or nil.
func (s *Set) Last() *scene.Part {
	parts := s.Parts()
	if len(parts) == 0 {
		return nil
	}
	return parts[len(parts)-1]
}

// Len returns the number of live members.
func (s *Set) Len() int {
	return len(s.Parts())
}

// Contains reports whether part is currently selected.
func (s *Set) Contains(part *scene.Part) bool {
	if part == nil {
		return false
	}
	p, ok := s.parts.Get(part.ID())
	return ok && p.Valid()
}

func (s *Set) add(part *scene.Part) {
	if _, ok := s.parts.Get(part.ID()); ok {
		if s.Toggle {
			s.remove(part)
		}
		return
	}
	s.parts.Set(part.ID(), part)

	target := scene.FocusTarget(part, s.PartBased)
	if target != nil {
		target.OnFocus(part, s.PartBased)
	}
	if s.onChange != nil {
		s.onChange(part, true, target != nil)
	}
}

func (s *Set) remove(part *scene.Part) {
	s.parts.Delete(part.ID())

	target := scene.FocusTarget(part, s.PartBased)
	if target != nil {
		target.OnUnfocus(part, s.PartBased)
	}
	if s.onChange != nil {
		s.onChange(part, false, target != nil)
	}
}
