package tmath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3Mul multiplies two vectors component-wise.
func Vec3Mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

// Vec3Div divides a by b component-wise. Components of b that are zero leave
// the corresponding component of a unchanged.
func Vec3Div(a, b mgl32.Vec3) mgl32.Vec3 {
	out := a
	for i := 0; i < 3; i++ {
		if b[i] != 0 {
			out[i] = a[i] / b[i]
		}
	}
	return out
}

// Quantize returns the largest multiple of increment that fits into total,
// truncating towards zero. A non-positive increment returns total unchanged.
func Quantize(total, increment float32) float32 {
	if increment <= 0 {
		return total
	}
	return math32.Trunc(total/increment) * increment
}

// SnapNearest rounds v to the nearest multiple of increment.
func SnapNearest(v, increment float32) float32 {
	if increment <= 0 {
		return v
	}
	return math32.Round(v/increment) * increment
}

// QuatAboutAxis returns the rotation of angle radians about axis.
func QuatAboutAxis(angle float32, axis mgl32.Vec3) mgl32.Quat {
	return mgl32.QuatRotate(angle, axis)
}

// AngleOfQuatAboutAxis extracts the signed angle (radians) of q interpreted
// as a rotation about axis. The axis must be a unit vector.
func AngleOfQuatAboutAxis(q mgl32.Quat, axis mgl32.Vec3) float32 {
	proj := q.V.Dot(axis)
	angle := 2 * math32.Atan2(proj, q.W)
	// Keep the result in (-pi, pi] so accumulators do not wrap.
	for angle > math32.Pi {
		angle -= 2 * math32.Pi
	}
	for angle <= -math32.Pi {
		angle += 2 * math32.Pi
	}
	return angle
}
