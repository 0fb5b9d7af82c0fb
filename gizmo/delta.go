package gizmo

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/transformlab/transformer/tmath"
)

// GetDeltaTransform computes the delta produced by the given pointer ray on
// the given domain. The first ray of a gesture establishes the baseline and
// yields a zero delta; every later ray yields the movement since the
// previous one. The result is deterministic given the same baseline, anchor
// pose and inputs.
func (g *Gizmo) GetDeltaTransform(lookDir, rayStart, rayEnd mgl32.Vec3, domain Domain) tmath.Transform {
	delta := tmath.DeltaIdentity()
	if domain == DomainNone {
		return delta
	}
	anchor := g.AnchorTransform()

	point, ok := g.gesturePoint(lookDir, rayStart, rayEnd, domain, anchor)
	if !ok {
		return delta
	}
	if !g.prevSet {
		g.prevPoint = point
		g.prevSet = true
		return delta
	}

	switch g.kind {
	case KindTranslation:
		delta.Translation = point.Sub(g.prevPoint)
	case KindRotation:
		axis, ok := axisOf(domain, g.space, anchor.Rotation)
		if !ok {
			return delta
		}
		from := g.prevPoint.Sub(anchor.Translation)
		to := point.Sub(anchor.Translation)
		angle := tmath.SignedAngleAboutAxis(from, to, axis)
		delta.Rotation = tmath.QuatAboutAxis(angle, axis)
	case KindScale:
		var amount float32
		if domain == DomainXYZ {
			amount = point.Sub(anchor.Translation).Len() - g.prevPoint.Sub(anchor.Translation).Len()
		} else {
			axis, ok := axisOf(domain, g.space, anchor.Rotation)
			if !ok {
				return delta
			}
			amount = point.Sub(g.prevPoint).Dot(axis)
		}
		delta.Scale = axisMask(domain).Mul(amount)
	}

	g.prevPoint = point
	return delta
}

// gesturePoint maps the ray to a point in the domain's constraint space: on
// the axis line for axis translation/scale, on the domain plane for plane
// and rotation domains, on the view plane for uniform scale.
func (g *Gizmo) gesturePoint(lookDir, rayStart, rayEnd mgl32.Vec3, domain Domain, anchor tmath.Transform) (mgl32.Vec3, bool) {
	switch {
	case domain == DomainXYZ:
		normal := lookDir
		if normal.LenSqr() == 0 {
			return mgl32.Vec3{}, false
		}
		return tmath.RayPlaneIntersect(anchor.Translation, normal.Normalize(), rayStart, rayEnd)

	case domain.IsPlane() || g.kind == KindRotation:
		normal, ok := axisOf(domain, g.space, anchor.Rotation)
		if !ok {
			return mgl32.Vec3{}, false
		}
		return tmath.RayPlaneIntersect(anchor.Translation, normal, rayStart, rayEnd)

	case domain.IsAxis():
		axis, ok := axisOf(domain, g.space, anchor.Rotation)
		if !ok {
			return mgl32.Vec3{}, false
		}
		return tmath.ClosestPointOnAxis(anchor.Translation, axis, rayStart, rayEnd)
	}
	return mgl32.Vec3{}, false
}
