package gizmo

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/transformlab/transformer/tmath"
)

// GetSnappedTransform folds rawDelta into the gizmo's remainder accumulator
// and returns the part of the running total that divides evenly by
// increment. The remainder stays in the accumulator, so snap error is
// carried forward instead of dropped; a zero rawDelta neither changes the
// emitted value nor grows the accumulator. Rotation increments are degrees.
func (g *Gizmo) GetSnappedTransform(rawDelta tmath.Transform, domain Domain, increment float32) tmath.Transform {
	out := tmath.DeltaIdentity()
	if increment <= 0 {
		return rawDelta
	}

	switch g.kind {
	case KindTranslation:
		out.Translation, g.accum.Translation = snapVec(g.accum.Translation, rawDelta.Translation, increment)
	case KindScale:
		out.Scale, g.accum.Scale = snapVec(g.accum.Scale, rawDelta.Scale, increment)
	case KindRotation:
		axis, ok := axisOf(domain, g.space, g.AnchorTransform().Rotation)
		if !ok {
			return rawDelta
		}
		total := tmath.AngleOfQuatAboutAxis(g.accum.Rotation, axis) +
			tmath.AngleOfQuatAboutAxis(rawDelta.Rotation, axis)
		emit := tmath.Quantize(total, mgl32.DegToRad(increment))
		g.accum.Rotation = tmath.QuatAboutAxis(total-emit, axis)
		out.Rotation = tmath.QuatAboutAxis(emit, axis)
	default:
		return rawDelta
	}
	return out
}

func snapVec(accum, raw mgl32.Vec3, increment float32) (emit, rest mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		total := accum[i] + raw[i]
		emit[i] = tmath.Quantize(total, increment)
		rest[i] = total - emit[i]
	}
	return emit, rest
}

// SnapWorldTransform re-snaps an object's proposed world pose to the grid
// after the shared delta has been applied. Translation and scale components
// round to the nearest multiple of increment; rotation poses are kept as
// computed, since quantizing a composed orientation per object would fight
// the gesture-level angle snapping.
func (g *Gizmo) SnapWorldTransform(proposed tmath.Transform, increment float32) tmath.Transform {
	if increment <= 0 {
		return proposed
	}
	switch g.kind {
	case KindTranslation:
		for i := 0; i < 3; i++ {
			proposed.Translation[i] = tmath.SnapNearest(proposed.Translation[i], increment)
		}
	case KindScale:
		for i := 0; i < 3; i++ {
			proposed.Scale[i] = tmath.SnapNearest(proposed.Scale[i], increment)
		}
	}
	return proposed
}
