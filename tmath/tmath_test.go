package tmath

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

func vecNear(a, b mgl32.Vec3) bool {
	return math32.Abs(a.X()-b.X()) < epsilon &&
		math32.Abs(a.Y()-b.Y()) < epsilon &&
		math32.Abs(a.Z()-b.Z()) < epsilon
}

func TestQuantize(t *testing.T) {
	cases := []struct {
		total, increment, want float32
	}{
		{0, 10, 0},
		{3, 10, 0},
		{7, 10, 0},
		{12, 10, 10},
		{-12, 10, -10},
		{25, 10, 20},
		{5, 0, 5},
		{5, -1, 5},
	}
	for _, c := range cases {
		if got := Quantize(c.total, c.increment); got != c.want {
			t.Errorf("Quantize(%v, %v) = %v, want %v", c.total, c.increment, got, c.want)
		}
	}
}

func TestSnapNearest(t *testing.T) {
	cases := []struct {
		v, increment, want float32
	}{
		{4, 10, 0},
		{6, 10, 10},
		{-6, 10, -10},
		{15, 10, 20},
		{3, 0, 3},
	}
	for _, c := range cases {
		if got := SnapNearest(c.v, c.increment); got != c.want {
			t.Errorf("SnapNearest(%v, %v) = %v, want %v", c.v, c.increment, got, c.want)
		}
	}
}

func TestVec3DivZeroDivisor(t *testing.T) {
	got := Vec3Div(mgl32.Vec3{6, 4, 2}, mgl32.Vec3{2, 0, 2})
	want := mgl32.Vec3{3, 4, 1}
	if !vecNear(got, want) {
		t.Errorf("Vec3Div = %v, want %v", got, want)
	}
}

func TestAngleOfQuatAboutAxisRoundTrip(t *testing.T) {
	axis := mgl32.Vec3{0, 1, 0}
	for _, angle := range []float32{0, 0.25, 1.5, -1.5, 3.0, -3.0} {
		q := QuatAboutAxis(angle, axis)
		got := AngleOfQuatAboutAxis(q, axis)
		if math32.Abs(got-angle) > epsilon {
			t.Errorf("angle %v round-tripped to %v", angle, got)
		}
	}
}

func TestComposeRelativeToRoundTrip(t *testing.T) {
	parent := Transform{
		Rotation:    QuatAboutAxis(math32.Pi/3, mgl32.Vec3{0, 0, 1}),
		Translation: mgl32.Vec3{5, -2, 1},
		Scale:       mgl32.Vec3{2, 2, 2},
	}
	local := Transform{
		Rotation:    QuatAboutAxis(-math32.Pi/5, mgl32.Vec3{1, 0, 0}),
		Translation: mgl32.Vec3{1, 2, 3},
		Scale:       mgl32.Vec3{1, 0.5, 3},
	}
	world := local.Compose(parent)
	back := world.RelativeTo(parent)
	if !vecNear(back.Translation, local.Translation) {
		t.Errorf("translation round-trip: got %v, want %v", back.Translation, local.Translation)
	}
	if !vecNear(back.Scale, local.Scale) {
		t.Errorf("scale round-trip: got %v, want %v", back.Scale, local.Scale)
	}
	if !back.Rotation.OrientationEqual(local.Rotation) {
		t.Errorf("rotation round-trip: got %v, want %v", back.Rotation, local.Rotation)
	}
}

func TestAccumulateDelta(t *testing.T) {
	total := DeltaIdentity()
	total = AccumulateDelta(total, Transform{
		Rotation:    QuatAboutAxis(0.5, mgl32.Vec3{0, 1, 0}),
		Translation: mgl32.Vec3{1, 0, 0},
		Scale:       mgl32.Vec3{0.1, 0, 0},
	})
	total = AccumulateDelta(total, Transform{
		Rotation:    QuatAboutAxis(0.25, mgl32.Vec3{0, 1, 0}),
		Translation: mgl32.Vec3{0, 2, 0},
		Scale:       mgl32.Vec3{0.1, 0.2, 0},
	})
	if !vecNear(total.Translation, mgl32.Vec3{1, 2, 0}) {
		t.Errorf("translation sum: got %v", total.Translation)
	}
	if !vecNear(total.Scale, mgl32.Vec3{0.2, 0.2, 0}) {
		t.Errorf("scale sum: got %v", total.Scale)
	}
	angle := AngleOfQuatAboutAxis(total.Rotation, mgl32.Vec3{0, 1, 0})
	if math32.Abs(angle-0.75) > epsilon {
		t.Errorf("rotation compose: got angle %v, want 0.75", angle)
	}
}

func TestIsZeroDelta(t *testing.T) {
	if !DeltaIdentity().IsZeroDelta() {
		t.Error("DeltaIdentity should be a zero delta")
	}
	d := DeltaIdentity()
	d.Translation = mgl32.Vec3{0, 0, 0.01}
	if d.IsZeroDelta() {
		t.Error("non-zero translation reported as zero delta")
	}
}

func TestClosestPointOnAxis(t *testing.T) {
	// Ray along -Z through (3, 0, 10) against the X axis.
	p, ok := ClosestPointOnAxis(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{3, 0, 10}, mgl32.Vec3{3, 0, -10})
	if !ok {
		t.Fatal("ClosestPointOnAxis: no intersection")
	}
	if !vecNear(p, mgl32.Vec3{3, 0, 0}) {
		t.Errorf("closest point = %v, want (3, 0, 0)", p)
	}

	// Parallel ray has no closest point.
	if _, ok := ClosestPointOnAxis(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{5, 1, 0}); ok {
		t.Error("parallel ray should report no closest point")
	}
}

func TestRayPlaneIntersect(t *testing.T) {
	p, ok := RayPlaneIntersect(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 5, 1}, mgl32.Vec3{1, -5, 1})
	if !ok {
		t.Fatal("RayPlaneIntersect: no hit")
	}
	if !vecNear(p, mgl32.Vec3{1, 0, 1}) {
		t.Errorf("plane hit = %v, want (1, 0, 1)", p)
	}

	// The plane behind the ray start is not hit.
	if _, ok := RayPlaneIntersect(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 5, 1}, mgl32.Vec3{1, 15, 1}); ok {
		t.Error("ray pointing away should miss the plane")
	}
}

func TestSignedAngleAboutAxis(t *testing.T) {
	axis := mgl32.Vec3{0, 1, 0}
	got := SignedAngleAboutAxis(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, axis)
	if math32.Abs(got-math32.Pi/2) > epsilon {
		t.Errorf("quarter turn: got %v, want %v", got, math32.Pi/2)
	}
	got = SignedAngleAboutAxis(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, axis)
	if math32.Abs(got+math32.Pi/2) > epsilon {
		t.Errorf("reverse quarter turn: got %v, want %v", got, -math32.Pi/2)
	}
}
