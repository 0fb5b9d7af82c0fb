package gizmo

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/tmath"
)

// Gizmo is the capability object mediating pointer rays into transform
// deltas. One gizmo exists at a time, bound to exactly one Kind; it owns the
// currently engaged Domain and the snapping remainder accumulator, both of
// which reset when the kind changes or the gesture ends.
type Gizmo struct {
	log   *logrus.Logger
	world *scene.World

	kind  Kind
	space Space

	anchor *scene.Part
	actor  *scene.Actor
	parts  map[uuid.UUID]Domain

	domain     Domain
	inProgress bool

	// Gesture baseline for delta computation. Established lazily on the
	// first ray of a gesture so the first frame produces a zero delta.
	prevPoint mgl32.Vec3
	prevSet   bool

	accum tmath.Transform
}

// handleExtent is the half-size of a handle's pickable bounds.
const handleExtent = 0.15

// New spawns a gizmo of the given kind. Its handle parts live in the world
// so that the same trace that selects objects can hit them, but they are
// never network-visible.
func New(log *logrus.Logger, world *scene.World, kind Kind, space Space) *Gizmo {
	g := &Gizmo{
		log:   log,
		world: world,
		kind:  kind,
		space: space,
		parts: make(map[uuid.UUID]Domain),
		accum: tmath.DeltaIdentity(),
	}
	g.actor = world.SpawnActor("gizmo:"+kind.String(), tmath.Identity())
	g.actor.MarkGizmo()
	g.actor.FinishSpawn()
	g.actor.Root().SetMovable(false)

	for _, d := range g.handleDomains() {
		part := world.AddPart(g.actor, "handle:"+d.String(), nil, handleLocal(d))
		part.SetMovable(false)
		part.SetBounds(cube.Box(
			-handleExtent, -handleExtent, -handleExtent,
			handleExtent, handleExtent, handleExtent,
		))
		g.parts[part.ID()] = d
	}
	return g
}

// handleDomains lists the domains this gizmo kind exposes handles for.
func (g *Gizmo) handleDomains() []Domain {
	switch g.kind {
	case KindTranslation:
		return []Domain{DomainX, DomainY, DomainZ, DomainXY, DomainYZ, DomainXZ}
	case KindRotation:
		return []Domain{DomainX, DomainY, DomainZ}
	case KindScale:
		return []Domain{DomainX, DomainY, DomainZ, DomainXYZ}
	}
	return nil
}

// handleLocal places a handle at unit distance along its domain direction.
func handleLocal(d Domain) tmath.Transform {
	t := tmath.Identity()
	switch d {
	case DomainX:
		t.Translation = mgl32.Vec3{1, 0, 0}
	case DomainY:
		t.Translation = mgl32.Vec3{0, 1, 0}
	case DomainZ:
		t.Translation = mgl32.Vec3{0, 0, 1}
	case DomainXY:
		t.Translation = mgl32.Vec3{0.5, 0.5, 0}
	case DomainYZ:
		t.Translation = mgl32.Vec3{0, 0.5, 0.5}
	case DomainXZ:
		t.Translation = mgl32.Vec3{0.5, 0, 0.5}
	}
	return t
}

// Kind returns the transformation the gizmo is bound to.
func (g *Gizmo) Kind() Kind {
	return g.kind
}

// Space returns the gizmo's current space.
func (g *Gizmo) Space() Space {
	return g.space
}

// SetSpace updates the space and reorients the handle actor.
func (g *Gizmo) SetSpace(space Space) {
	g.space = space
	g.reorient()
}

// Domain returns the currently engaged domain, DomainNone outside a gesture.
func (g *Gizmo) Domain() Domain {
	return g.domain
}

// InProgress reports whether a transform gesture is running.
func (g *Gizmo) InProgress() bool {
	return g.inProgress
}

// SetProgress updates the gesture state. Engaging or disengaging drops the
// gesture baseline so the next ray starts a fresh delta.
func (g *Gizmo) SetProgress(inProgress bool, domain Domain) {
	g.inProgress = inProgress
	g.domain = domain
	g.prevSet = false
	if !inProgress {
		g.domain = DomainNone
	}
}

// Anchor returns the selected part the gizmo is attached to, or nil.
func (g *Gizmo) Anchor() *scene.Part {
	return g.anchor
}

// AttachTo anchors the gizmo to the given part, snapping the handle actor to
// the part's world position.
func (g *Gizmo) AttachTo(anchor *scene.Part) {
	g.anchor = anchor
	g.reorient()
}

// AnchorTransform returns the anchor's world pose, or identity if the gizmo
// is currently detached.
func (g *Gizmo) AnchorTransform() tmath.Transform {
	if g.anchor == nil || !g.anchor.Valid() {
		return tmath.Identity()
	}
	return g.anchor.WorldTransform()
}

// reorient moves the handle actor onto the anchor and, in local space,
// aligns it with the anchor's rotation.
func (g *Gizmo) reorient() {
	if g.actor == nil || !g.actor.Valid() {
		return
	}
	pose := tmath.Identity()
	anchor := g.AnchorTransform()
	pose.Translation = anchor.Translation
	if g.space == SpaceLocal {
		pose.Rotation = anchor.Rotation
	}
	g.actor.Root().SetWorldTransform(pose)
}

// OwnsPart reports whether part is one of this gizmo's handles.
func (g *Gizmo) OwnsPart(part *scene.Part) bool {
	if part == nil {
		return false
	}
	_, ok := g.parts[part.ID()]
	return ok
}

// DomainOf maps a hit handle part to the domain it represents. Parts that
// are not handles of this gizmo map to DomainNone.
func (g *Gizmo) DomainOf(part *scene.Part) Domain {
	if part == nil {
		return DomainNone
	}
	d, ok := g.parts[part.ID()]
	if !ok {
		return DomainNone
	}
	return d
}

// HandleParts returns the gizmo's handle parts, excluding the carrier root.
func (g *Gizmo) HandleParts() []*scene.Part {
	if g.actor == nil || !g.actor.Valid() {
		return nil
	}
	parts := make([]*scene.Part, 0, len(g.parts))
	for _, p := range g.actor.Parts() {
		if _, ok := g.parts[p.ID()]; ok {
			parts = append(parts, p)
		}
	}
	return parts
}

// ResetAccumulator clears the snapping remainder.
func (g *Gizmo) ResetAccumulator() {
	g.accum = tmath.DeltaIdentity()
}

// Destroy removes the gizmo's handle actor from the world.
func (g *Gizmo) Destroy() {
	if g.actor != nil {
		g.world.DestroyActor(g.actor)
		g.actor = nil
	}
	g.anchor = nil
	g.parts = map[uuid.UUID]Domain{}
}
