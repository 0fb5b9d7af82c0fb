package session

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/gizmo"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/selection"
	"github.com/transformlab/transformer/settings"
	"github.com/transformlab/transformer/tmath"
)

// rayReach is how far the pointer ray extends past its origin.
const rayReach = 1e8

// Session turns pointer rays into applied transforms for the whole
// selection, one tick at a time. It owns the network delta: the running
// total of everything applied during the current gesture, kept strictly
// separate from the gizmo's snapping remainder. The network delta survives
// domain clears and is reset only when flushed for replication.
type Session struct {
	log *logrus.Logger
	sel *selection.Set

	netDelta tmath.Transform

	// RotateOnLocalAxis keeps each object in place and spins it about its
	// own axis instead of orbiting the gizmo anchor.
	RotateOnLocalAxis bool
	// ForceMobility applies transforms to non-movable objects, making
	// them movable as a side effect.
	ForceMobility bool
	// TransformFocusables also moves objects carrying a focus capability;
	// when unset such objects are only notified.
	TransformFocusables bool
}

// NewSession returns a session operating on the given selection.
func NewSession(log *logrus.Logger, sel *selection.Set) *Session {
	return &Session{
		log:                 log,
		sel:                 sel,
		netDelta:            tmath.DeltaIdentity(),
		TransformFocusables: true,
	}
}

// Tick runs one frame of an active gesture: computes the raw delta for the
// gizmo's engaged domain, applies the snapping policy, applies the result to
// every selected object and folds it into the network delta. The applied
// delta is returned.
func (s *Session) Tick(g *gizmo.Gizmo, snap settings.Snap, lookDir, rayOrigin, rayDir mgl32.Vec3) tmath.Transform {
	delta := tmath.DeltaIdentity()
	if g == nil || g.Domain() == gizmo.DomainNone {
		return delta
	}
	rayEnd := rayOrigin.Add(rayDir.Mul(rayReach))

	delta = g.GetDeltaTransform(lookDir, rayOrigin, rayEnd, g.Domain())
	if snap.Enabled && snap.Increment > 0 {
		delta = g.GetSnappedTransform(delta, g.Domain(), snap.Increment)
	}

	s.Apply(g, delta, snap)
	s.netDelta = tmath.AccumulateDelta(s.netDelta, delta)
	return delta
}

// Apply applies a delta transform to every selected object. Rotation orbits
// the object's offset from the gizmo anchor unless local-axis rotation is
// set; scale deltas are un-rotated into the object's local frame before
// adding, since world-space scale composition is not supported. Non-movable
// objects are skipped with a warning unless mobility is forced.
func (s *Session) Apply(g *gizmo.Gizmo, delta tmath.Transform, snap settings.Snap) {
	anchorPos := g.AnchorTransform().Translation

	for _, part := range s.sel.Parts() {
		if g.OwnsPart(part) {
			continue
		}
		if !s.ForceMobility && !part.Movable() {
			s.log.Warnf("transform will not affect %s: not movable", part.Name())
			continue
		}

		current := part.WorldTransform()

		offset := current.Translation.Sub(anchorPos)
		if !s.RotateOnLocalAxis {
			offset = delta.Rotation.Rotate(offset)
		}
		localScale := current.Rotation.Inverse().Rotate(delta.Scale)

		next := tmath.Transform{
			Rotation:    delta.Rotation.Mul(current.Rotation),
			Translation: offset.Add(anchorPos).Add(delta.Translation),
			Scale:       current.Scale.Add(localScale),
		}
		if snap.Enabled && snap.Increment > 0 {
			next = g.SnapWorldTransform(next, snap.Increment)
		}

		if s.ForceMobility {
			part.SetMovable(true)
		}
		s.setTransform(part, next)
	}
}

// setTransform pushes a new world pose to a part, routing through its focus
// capability when one is present.
func (s *Session) setTransform(part *scene.Part, t tmath.Transform) {
	if target := scene.FocusTarget(part, s.sel.PartBased); target != nil {
		target.OnNewTransform(part, t, s.sel.PartBased)
		if !s.TransformFocusables {
			return
		}
	}
	part.SetWorldTransform(t)
}

// NetworkDelta returns the gesture's running total for replication.
func (s *Session) NetworkDelta() tmath.Transform {
	return s.netDelta
}

// ResetNetworkDelta clears the gesture total. Called after the delta has
// been flushed to the wire, never when the domain clears.
func (s *Session) ResetNetworkDelta() {
	s.netDelta = tmath.DeltaIdentity()
}
