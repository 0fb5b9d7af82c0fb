package clone

import (
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/tmath"
)

func newTestEngine(t *testing.T) (*Engine, *scene.World) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	w := scene.NewWorld()
	return NewEngine(log, w), w
}

func poseAt(x, y, z float32) tmath.Transform {
	p := tmath.Identity()
	p.Translation = mgl32.Vec3{x, y, z}
	return p
}

func TestCloneActorsCollapsesDuplicates(t *testing.T) {
	e, w := newTestEngine(t)
	a := w.SpawnActor("rig", tmath.Identity())
	a.FinishSpawn()
	p1 := w.AddPart(a, "p1", nil, tmath.Identity())
	p2 := w.AddPart(a, "p2", nil, tmath.Identity())

	roots := e.CloneActors([]*scene.Part{p1, p2, a.Root()})
	if len(roots) != 1 {
		t.Fatalf("got %d clones, want 1 per owning actor", len(roots))
	}
	clone := roots[0].Owner()
	if clone == a {
		t.Fatal("clone is the source actor")
	}
	if len(clone.Parts()) != len(a.Parts()) {
		t.Errorf("clone has %d parts, want %d", len(clone.Parts()), len(a.Parts()))
	}
}

func TestClonePartsReattachesToClonedParent(t *testing.T) {
	e, w := newTestEngine(t)
	a := w.SpawnActor("rig", tmath.Identity())
	a.FinishSpawn()
	parent := w.AddPart(a, "parent", nil, poseAt(1, 0, 0))
	child := w.AddPart(a, "child", parent, poseAt(0, 1, 0))

	res := e.CloneParts([]*scene.Part{parent, child})
	if len(res.All) != 2 {
		t.Fatalf("cloned %d parts, want 2", len(res.All))
	}
	parentClone, childClone := res.All[0], res.All[1]
	if childClone.Parent() != parentClone {
		t.Errorf("child clone attached to %v, want the parent's clone", childClone.Parent().Name())
	}
	if len(res.Topmost) != 1 || res.Topmost[0] != parentClone {
		t.Errorf("topmost = %d clones, want only the parent clone", len(res.Topmost))
	}
}

func TestClonePartsRootAttachesToOriginalRoot(t *testing.T) {
	e, w := newTestEngine(t)
	a := w.SpawnActor("rig", tmath.Identity())
	a.FinishSpawn()

	res := e.CloneParts([]*scene.Part{a.Root()})
	if len(res.All) != 1 {
		t.Fatalf("cloned %d parts, want 1", len(res.All))
	}
	clone := res.All[0]
	if clone.Parent() != a.Root() {
		t.Error("root clone must attach to the original root, not its own clone")
	}
	if clone.IsAncestorOf(clone) && clone.Parent() == clone {
		t.Error("root clone became its own ancestor")
	}
	if len(res.Topmost) != 1 {
		t.Errorf("root clone must be topmost, got %d", len(res.Topmost))
	}
}

func TestClonePartsOrphanFallsBackToRoot(t *testing.T) {
	e, w := newTestEngine(t)
	a := w.SpawnActor("rig", tmath.Identity())
	a.FinishSpawn()
	mid := w.AddPart(a, "mid", nil, tmath.Identity())
	leaf := w.AddPart(a, "leaf", mid, tmath.Identity())

	// Only the leaf is cloned; its ancestor chain holds no clones, so the
	// clone lands on the actor root.
	res := e.CloneParts([]*scene.Part{leaf})
	if len(res.All) != 1 {
		t.Fatalf("cloned %d parts, want 1", len(res.All))
	}
	if got := res.All[0].Parent(); got != a.Root() {
		t.Errorf("leaf clone attached to %v, want the actor root", got.Name())
	}
	if len(res.Topmost) != 1 {
		t.Errorf("leaf clone must be topmost, got %d", len(res.Topmost))
	}
}

func TestClonePartsNearestClonedAncestor(t *testing.T) {
	e, w := newTestEngine(t)
	a := w.SpawnActor("rig", tmath.Identity())
	a.FinishSpawn()
	top := w.AddPart(a, "top", nil, tmath.Identity())
	mid := w.AddPart(a, "mid", top, tmath.Identity())
	leaf := w.AddPart(a, "leaf", mid, tmath.Identity())

	// top and leaf are cloned, mid is not: the leaf clone must find the
	// cloned grandparent through the skipped generation.
	res := e.CloneParts([]*scene.Part{top, leaf})
	if len(res.All) != 2 {
		t.Fatalf("cloned %d parts, want 2", len(res.All))
	}
	topClone, leafClone := res.All[0], res.All[1]
	if leafClone.Parent() != topClone {
		t.Errorf("leaf clone attached to %v, want the top clone", leafClone.Parent().Name())
	}
	if len(res.Topmost) != 1 || res.Topmost[0] != topClone {
		t.Errorf("only the top clone should be topmost, got %d", len(res.Topmost))
	}
}

func TestClonePartsKeepsWorldPose(t *testing.T) {
	e, w := newTestEngine(t)
	a := w.SpawnActor("rig", poseAt(10, 0, 0))
	a.FinishSpawn()
	parent := w.AddPart(a, "parent", nil, poseAt(0, 5, 0))
	child := w.AddPart(a, "child", parent, poseAt(0, 0, 2))

	res := e.CloneParts([]*scene.Part{child})
	if len(res.All) != 1 {
		t.Fatalf("cloned %d parts, want 1", len(res.All))
	}
	want := child.WorldTransform().Translation
	got := res.All[0].WorldTransform().Translation
	if got != want {
		t.Errorf("clone world pose %v, want %v", got, want)
	}
}

func TestClonePartsDeduplicates(t *testing.T) {
	e, w := newTestEngine(t)
	a := w.SpawnActor("rig", tmath.Identity())
	a.FinishSpawn()
	p := w.AddPart(a, "p", nil, tmath.Identity())

	res := e.CloneParts([]*scene.Part{p, p})
	if len(res.All) != 1 {
		t.Errorf("listing a part twice produced %d clones", len(res.All))
	}
}
