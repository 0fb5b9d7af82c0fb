package tmath

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rotation/translation/scale triple. It doubles as a world
// pose and as a delta: deltas start from DeltaIdentity (zero scale) so that
// scale contributions can be summed instead of multiplied.
type Transform struct {
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
}

// Identity returns a transform that leaves a pose unchanged under Compose.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// DeltaIdentity returns the zero delta: identity rotation, zero translation
// and zero scale.
func DeltaIdentity() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// IsZeroDelta reports whether t carries no rotation, translation or scale.
func (t Transform) IsZeroDelta() bool {
	return t.Translation == (mgl32.Vec3{}) && t.Scale == (mgl32.Vec3{}) &&
		t.Rotation.OrientationEqual(mgl32.QuatIdent())
}

// Compose returns the world pose of a local transform t under parent.
func (t Transform) Compose(parent Transform) Transform {
	return Transform{
		Rotation:    parent.Rotation.Mul(t.Rotation),
		Translation: parent.Translation.Add(parent.Rotation.Rotate(Vec3Mul(parent.Scale, t.Translation))),
		Scale:       Vec3Mul(parent.Scale, t.Scale),
	}
}

// RelativeTo returns t expressed in the frame of parent, the inverse of
// Compose.
func (t Transform) RelativeTo(parent Transform) Transform {
	inv := parent.Rotation.Inverse()
	return Transform{
		Rotation:    inv.Mul(t.Rotation),
		Translation: Vec3Div(inv.Rotate(t.Translation.Sub(parent.Translation)), parent.Scale),
		Scale:       Vec3Div(t.Scale, parent.Scale),
	}
}

// AccumulateDelta folds a per-frame delta into a running network delta:
// rotations compose, translations and scales sum.
func AccumulateDelta(total, delta Transform) Transform {
	return Transform{
		Rotation:    delta.Rotation.Mul(total.Rotation),
		Translation: total.Translation.Add(delta.Translation),
		Scale:       total.Scale.Add(delta.Scale),
	}
}
