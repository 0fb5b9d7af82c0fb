package tmath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ClosestPointOnAxis finds the point on the infinite line (origin, axis)
// closest to the ray through rayStart/rayEnd. The second return value is
// false when the ray runs parallel to the axis.
func ClosestPointOnAxis(origin, axis, rayStart, rayEnd mgl32.Vec3) (mgl32.Vec3, bool) {
	dir := rayEnd.Sub(rayStart)
	if dir.LenSqr() == 0 {
		return mgl32.Vec3{}, false
	}
	dir = dir.Normalize()

	w := rayStart.Sub(origin)
	b := axis.Dot(dir)
	d := axis.Dot(w)
	e := dir.Dot(w)
	denom := 1 - b*b
	if math32.Abs(denom) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	s := (d - b*e) / denom
	return origin.Add(axis.Mul(s)), true
}

// RayPlaneIntersect intersects the ray through rayStart/rayEnd with the
// plane through planePoint with the given normal.
func RayPlaneIntersect(planePoint, normal, rayStart, rayEnd mgl32.Vec3) (mgl32.Vec3, bool) {
	dir := rayEnd.Sub(rayStart)
	denom := normal.Dot(dir)
	if math32.Abs(denom) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := normal.Dot(planePoint.Sub(rayStart)) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return rayStart.Add(dir.Mul(t)), true
}

// ProjectOnPlane removes from v its component along the unit normal.
func ProjectOnPlane(v, normal mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// SignedAngleAboutAxis returns the signed angle (radians) from a to b when
// both are projected onto the plane perpendicular to the unit axis.
func SignedAngleAboutAxis(a, b, axis mgl32.Vec3) float32 {
	pa := ProjectOnPlane(a, axis)
	pb := ProjectOnPlane(b, axis)
	if pa.LenSqr() < 1e-9 || pb.LenSqr() < 1e-9 {
		return 0
	}
	pa = pa.Normalize()
	pb = pb.Normalize()
	sin := pa.Cross(pb).Dot(axis)
	cos := pa.Dot(pb)
	return math32.Atan2(sin, cos)
}
