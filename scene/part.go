package scene

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/google/uuid"
	"github.com/transformlab/transformer/tmath"
)

// Part is a positionable piece of an Actor. Parts form an acyclic attachment
// hierarchy rooted at the actor's root part. Anything holding a *Part across
// ticks must treat it as a weak reference and check Valid before use.
type Part struct {
	id   uuid.UUID
	name string

	local  tmath.Transform
	parent *Part
	owner  *Actor

	movable    bool
	replicated bool
	tag        string
	bounds     cube.BBox

	focusable Focusable

	destroyed bool
}

// ID returns the unique identity of the part. It is stable across
// participants for replicated content.
func (p *Part) ID() uuid.UUID {
	return p.id
}

// Name returns the display name of the part.
func (p *Part) Name() string {
	return p.name
}

// Owner returns the actor this part belongs to.
func (p *Part) Owner() *Actor {
	return p.owner
}

// Parent returns the part this part is attached to, or nil for a root part.
func (p *Part) Parent() *Part {
	return p.parent
}

// Local returns the transform of the part relative to its parent.
func (p *Part) Local() tmath.Transform {
	return p.local
}

// SetLocal sets the transform of the part relative to its parent.
func (p *Part) SetLocal(t tmath.Transform) {
	p.local = t
}

// WorldTransform composes the part's pose up through its attachment chain.
func (p *Part) WorldTransform() tmath.Transform {
	if p.parent == nil {
		return p.local
	}
	return p.local.Compose(p.parent.WorldTransform())
}

// SetWorldTransform sets the part's world pose, re-expressing it relative to
// the current parent.
func (p *Part) SetWorldTransform(t tmath.Transform) {
	if p.parent == nil {
		p.local = t
		return
	}
	p.local = t.RelativeTo(p.parent.WorldTransform())
}

// Movable reports whether transforms may be applied to this part.
func (p *Part) Movable() bool {
	return p.movable
}

// SetMovable sets the mobility flag of the part.
func (p *Part) SetMovable(movable bool) {
	p.movable = movable
}

// Replicated reports whether the part and its owner are network-visible.
func (p *Part) Replicated() bool {
	if p.owner != nil && !p.owner.replicated {
		return false
	}
	return p.replicated
}

// SetReplicated sets the network visibility of the part itself.
func (p *Part) SetReplicated(replicated bool) {
	p.replicated = replicated
}

// Tag returns the trace tag of the part, the analogue of a collision
// channel. Empty means untagged.
func (p *Part) Tag() string {
	return p.tag
}

// SetTag sets the trace tag of the part.
func (p *Part) SetTag(tag string) {
	p.tag = tag
}

// Bounds returns the local-space bounds of the part, used by tracing.
func (p *Part) Bounds() cube.BBox {
	return p.bounds
}

// SetBounds sets the local-space bounds of the part.
func (p *Part) SetBounds(b cube.BBox) {
	p.bounds = b
}

// Focusable returns the focus capability attached to this part, or nil.
func (p *Part) Focusable() Focusable {
	return p.focusable
}

// SetFocusable attaches a focus capability to the part.
func (p *Part) SetFocusable(f Focusable) {
	p.focusable = f
}

// Valid reports whether the part (and its owner) still exist.
func (p *Part) Valid() bool {
	if p == nil || p.destroyed {
		return false
	}
	return p.owner == nil || !p.owner.destroyed
}

// IsRoot reports whether the part is the root of its owning actor.
func (p *Part) IsRoot() bool {
	return p.owner != nil && p.owner.root == p
}

// IsAncestorOf walks other's attachment chain looking for p.
func (p *Part) IsAncestorOf(other *Part) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == p {
			return true
		}
	}
	return false
}

// AttachTo attaches the part to parent. With keepWorld set, the part keeps
// its world pose; otherwise it keeps its local transform. Attachments that
// would make a part its own ancestor are refused.
func (p *Part) AttachTo(parent *Part, keepWorld bool) {
	if parent == nil || parent == p || p.IsAncestorOf(parent) {
		return
	}
	if keepWorld {
		world := p.WorldTransform()
		p.parent = parent
		p.SetWorldTransform(world)
		return
	}
	p.parent = parent
}
