package gizmo

import (
	"io"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/tmath"
)

const epsilon = 1e-4

func newTestGizmo(t *testing.T, kind Kind) (*Gizmo, *scene.World) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	w := scene.NewWorld()
	return New(log, w, kind, SpaceWorld), w
}

func translationDelta(x, y, z float32) tmath.Transform {
	d := tmath.DeltaIdentity()
	d.Translation = mgl32.Vec3{x, y, z}
	return d
}

func TestSnappedTransformCarriesRemainder(t *testing.T) {
	g, _ := newTestGizmo(t, KindTranslation)

	// Raw deltas of 3, 4 and 5 against an increment of 10 emit nothing,
	// nothing and 10, with 2 left in the accumulator.
	emitted := []float32{
		g.GetSnappedTransform(translationDelta(3, 0, 0), DomainX, 10).Translation.X(),
		g.GetSnappedTransform(translationDelta(4, 0, 0), DomainX, 10).Translation.X(),
		g.GetSnappedTransform(translationDelta(5, 0, 0), DomainX, 10).Translation.X(),
	}
	want := []float32{0, 0, 10}
	for i := range want {
		if math32.Abs(emitted[i]-want[i]) > epsilon {
			t.Errorf("step %d emitted %v, want %v", i, emitted[i], want[i])
		}
	}
	if rest := g.accum.Translation.X(); math32.Abs(rest-2) > epsilon {
		t.Errorf("remainder %v, want 2", rest)
	}
}

func TestSnappedTransformZeroDeltaIdempotent(t *testing.T) {
	g, _ := newTestGizmo(t, KindTranslation)
	g.GetSnappedTransform(translationDelta(3, 0, 0), DomainX, 10)
	before := g.accum

	out := g.GetSnappedTransform(tmath.DeltaIdentity(), DomainX, 10)
	if !out.IsZeroDelta() {
		t.Errorf("zero raw delta emitted %v", out)
	}
	if g.accum != before {
		t.Errorf("zero raw delta changed the accumulator: %v -> %v", before, g.accum)
	}
}

func TestSnappedTransformDisabledIncrement(t *testing.T) {
	g, _ := newTestGizmo(t, KindTranslation)
	raw := translationDelta(3.7, 0, 0)
	if out := g.GetSnappedTransform(raw, DomainX, 0); out != raw {
		t.Errorf("increment 0 must pass the raw delta through, got %v", out)
	}
}

func TestSnappedRotation(t *testing.T) {
	g, _ := newTestGizmo(t, KindRotation)
	axis := mgl32.Vec3{0, 1, 0}

	raw := tmath.DeltaIdentity()
	raw.Rotation = tmath.QuatAboutAxis(mgl32.DegToRad(40), axis)
	out := g.GetSnappedTransform(raw, DomainY, 45)
	if got := tmath.AngleOfQuatAboutAxis(out.Rotation, axis); math32.Abs(got) > epsilon {
		t.Errorf("40 degrees at increment 45 emitted %v rad", got)
	}

	raw.Rotation = tmath.QuatAboutAxis(mgl32.DegToRad(10), axis)
	out = g.GetSnappedTransform(raw, DomainY, 45)
	if got := tmath.AngleOfQuatAboutAxis(out.Rotation, axis); math32.Abs(got-mgl32.DegToRad(45)) > epsilon {
		t.Errorf("accumulated 50 degrees emitted %v rad, want 45 degrees", got)
	}
}

func TestResetAccumulator(t *testing.T) {
	g, _ := newTestGizmo(t, KindTranslation)
	g.GetSnappedTransform(translationDelta(7, 0, 0), DomainX, 10)
	g.ResetAccumulator()
	if !g.accum.IsZeroDelta() {
		t.Errorf("accumulator not reset: %v", g.accum)
	}
}

func TestDeltaFirstRayIsBaseline(t *testing.T) {
	g, _ := newTestGizmo(t, KindTranslation)
	g.SetProgress(true, DomainX)

	look := mgl32.Vec3{0, 0, -1}
	d := g.GetDeltaTransform(look, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -10}, DomainX)
	if !d.IsZeroDelta() {
		t.Errorf("first ray produced %v, want zero delta", d)
	}

	d = g.GetDeltaTransform(look, mgl32.Vec3{4, 0, 10}, mgl32.Vec3{4, 0, -10}, DomainX)
	if math32.Abs(d.Translation.X()-4) > epsilon {
		t.Errorf("axis translation delta %v, want 4 along x", d.Translation)
	}
}

func TestDeltaRotationAboutY(t *testing.T) {
	g, _ := newTestGizmo(t, KindRotation)
	g.SetProgress(true, DomainY)
	look := mgl32.Vec3{0, -1, 0}

	// Two rays onto the y=0 plane, a quarter turn apart about the origin.
	g.GetDeltaTransform(look, mgl32.Vec3{1, 5, 0}, mgl32.Vec3{1, -5, 0}, DomainY)
	d := g.GetDeltaTransform(look, mgl32.Vec3{0, 5, -1}, mgl32.Vec3{0, -5, -1}, DomainY)

	angle := tmath.AngleOfQuatAboutAxis(d.Rotation, mgl32.Vec3{0, 1, 0})
	if math32.Abs(angle-math32.Pi/2) > epsilon {
		t.Errorf("rotation delta %v rad, want pi/2", angle)
	}
}

func TestDeltaScaleAlongAxis(t *testing.T) {
	g, _ := newTestGizmo(t, KindScale)
	g.SetProgress(true, DomainX)
	look := mgl32.Vec3{0, 0, -1}

	g.GetDeltaTransform(look, mgl32.Vec3{1, 0, 10}, mgl32.Vec3{1, 0, -10}, DomainX)
	d := g.GetDeltaTransform(look, mgl32.Vec3{3, 0, 10}, mgl32.Vec3{3, 0, -10}, DomainX)
	if math32.Abs(d.Scale.X()-2) > epsilon || d.Scale.Y() != 0 || d.Scale.Z() != 0 {
		t.Errorf("scale delta %v, want (2, 0, 0)", d.Scale)
	}
}

func TestSetProgressDropsBaseline(t *testing.T) {
	g, _ := newTestGizmo(t, KindTranslation)
	g.SetProgress(true, DomainX)
	look := mgl32.Vec3{0, 0, -1}
	g.GetDeltaTransform(look, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -10}, DomainX)

	g.SetProgress(true, DomainX)
	d := g.GetDeltaTransform(look, mgl32.Vec3{9, 0, 10}, mgl32.Vec3{9, 0, -10}, DomainX)
	if !d.IsZeroDelta() {
		t.Errorf("baseline survived SetProgress: %v", d)
	}
}

func TestHandleDomainsPerKind(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindTranslation, 6},
		{KindRotation, 3},
		{KindScale, 4},
	}
	for _, c := range cases {
		g, _ := newTestGizmo(t, c.kind)
		if got := len(g.HandleParts()); got != c.want {
			t.Errorf("%v: %d handles, want %d", c.kind, got, c.want)
		}
		g.Destroy()
	}
}

func TestDomainOfAndOwnsPart(t *testing.T) {
	g, w := newTestGizmo(t, KindTranslation)
	for _, p := range g.HandleParts() {
		if !g.OwnsPart(p) {
			t.Errorf("gizmo does not own its handle %s", p.Name())
		}
		if g.DomainOf(p) == DomainNone {
			t.Errorf("handle %s maps to no domain", p.Name())
		}
	}

	other := w.SpawnActor("cube", tmath.Identity())
	other.FinishSpawn()
	if g.OwnsPart(other.Root()) {
		t.Error("gizmo claims a foreign part")
	}
	if g.DomainOf(other.Root()) != DomainNone {
		t.Error("foreign part maps to a domain")
	}
}

func TestAttachToPlacesHandles(t *testing.T) {
	g, w := newTestGizmo(t, KindTranslation)
	anchor := w.SpawnActor("cube", tmath.Transform{
		Rotation:    mgl32.QuatIdent(),
		Translation: mgl32.Vec3{7, 1, -2},
		Scale:       mgl32.Vec3{1, 1, 1},
	})
	anchor.FinishSpawn()

	g.AttachTo(anchor.Root())
	got := g.HandleParts()[0].Owner().Root().WorldTransform().Translation
	if math32.Abs(got.X()-7) > epsilon || math32.Abs(got.Y()-1) > epsilon || math32.Abs(got.Z()+2) > epsilon {
		t.Errorf("handle actor at %v, want (7, 1, -2)", got)
	}
}

func TestAxisOfLocalSpace(t *testing.T) {
	rot := mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})
	axis, ok := axisOf(DomainX, SpaceLocal, rot)
	if !ok {
		t.Fatal("axisOf failed for local x")
	}
	// A quarter turn about y sends +x to -z.
	if math32.Abs(axis.X()) > epsilon || math32.Abs(axis.Z()+1) > epsilon {
		t.Errorf("local x axis = %v, want (0, 0, -1)", axis)
	}
}
